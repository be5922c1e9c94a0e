package core

import (
	"github.com/sidereusnuntius/blogfront/internal/service"
)

type AppService struct {
	API service.AuthAPI
}

func New(api service.AuthAPI) service.Service {
	return &AppService{
		API: api,
	}
}
