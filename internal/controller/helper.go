package controller

import (
	"fmt"
	"net/http"
)

const headerPrefix = "Wr-"

// identity headers are filled in upstream by the auth proxy
func (c controller) mustHeader(r *http.Request, key string) (string, error) {
	value := r.Header.Get(headerPrefix + key)
	if value == "" {
		return "", fmt.Errorf("%s was not provided", key)
	}

	return value, nil
}

func (c controller) identity(r *http.Request) (userId string, displayName string, err error) {
	userId, err = c.mustHeader(r, "User-Id")
	if err != nil {
		return "", "", err
	}

	displayName = r.Header.Get(headerPrefix + "User-Name")
	if displayName == "" {
		displayName = "Anonymous User"
	}

	return userId, displayName, nil
}
