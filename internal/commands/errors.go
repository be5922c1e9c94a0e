package commands

import (
	"errors"
	"fmt"

	"github.com/sidereusnuntius/blogfront/internal/client"
	"github.com/sidereusnuntius/blogfront/internal/store"
	"github.com/sidereusnuntius/blogfront/internal/validate"
)

// describe turns err into what the terminal should print.
func describe(err error) error {
	var verr *validate.Error
	switch {
	case errors.As(err, &verr):
		return fmt.Errorf("invalid input: %s", verr.Error())
	case errors.Is(err, client.ErrUnauthorized):
		if msg := client.Message(err); msg != "" {
			return fmt.Errorf("%w: %s", ErrNotSignedIn, msg)
		}
		return ErrNotSignedIn
	case errors.Is(err, client.ErrForbidden):
		return errors.New("you are not allowed to do that")
	case errors.Is(err, client.ErrNotFound):
		return errors.New("not found")
	case errors.Is(err, store.ErrLikeInFlight):
		return err
	}
	if msg := client.Message(err); msg != "" {
		return errors.New(msg)
	}
	return err
}
