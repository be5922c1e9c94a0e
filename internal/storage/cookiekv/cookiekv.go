// Package cookiekv stores key/value pairs in the browser's encrypted session cookie, which makes the
// browser itself the durable storage for a web visitor's session.
package cookiekv

import (
	"errors"
	"net/http"

	"github.com/alexedwards/scs"
	"github.com/sidereusnuntius/blogfront/internal/storage"
)

// KV is bound to one request: reads come from the request's cookie, writes set the response cookie.
// Writes must happen before the response body is written.
type KV struct {
	session *scs.Session
	w       http.ResponseWriter
}

func New(manager *scs.Manager, w http.ResponseWriter, r *http.Request) *KV {
	return &KV{
		session: manager.Load(r),
		w:       w,
	}
}

func (k *KV) Get(key string) (string, error) {
	exists, err := k.session.Exists(key)
	if err != nil {
		return "", errors.Join(storage.ErrUnavailable, err)
	}
	if !exists {
		return "", storage.ErrNotExist
	}

	v, err := k.session.GetString(key)
	if err != nil {
		return "", errors.Join(storage.ErrInternal, err)
	}
	return v, nil
}

func (k *KV) Set(key, value string) error {
	if err := k.session.PutString(k.w, key, value); err != nil {
		return errors.Join(storage.ErrInternal, err)
	}
	return nil
}

func (k *KV) Delete(key string) error {
	if err := k.session.Remove(k.w, key); err != nil {
		return errors.Join(storage.ErrInternal, err)
	}
	return nil
}

// Pop returns and removes a value in one step. Missing keys yield "".
func (k *KV) Pop(key string) string {
	v, err := k.session.PopString(k.w, key)
	if err != nil {
		return ""
	}
	return v
}
