// Package permissions holds the access predicates used to gate requests.
// They are pure functions of the HTTP method, the requesting user (nil for
// anonymous requests) and, for object checks, the object's author.
package permissions

import (
	"net/http"

	"yamdb/internal/microservices/http-api/models"
)

// Predicate decides whether a request may proceed.
type Predicate func(method string, user *models.User) bool

// IsSafeMethod reports read-only methods.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func IsAdminOrReadOnly(method string, user *models.User) bool {
	if IsSafeMethod(method) {
		return true
	}
	return user != nil && user.IsAdmin()
}

func IsAdminOnly(_ string, user *models.User) bool {
	return user != nil && user.IsAdmin()
}

func IsAuthenticated(_ string, user *models.User) bool {
	return user != nil
}

// IsAuthenticatedOrReadOnly is the request level half of the author rule.
// The object level half is CanModifyObject.
func IsAuthenticatedOrReadOnly(method string, user *models.User) bool {
	return IsSafeMethod(method) || user != nil
}

// CanModifyObject allows safe methods to everyone and writes to admins,
// moderators and the object's author.
func CanModifyObject(method string, user *models.User, authorID string) bool {
	if IsSafeMethod(method) {
		return true
	}
	if user == nil {
		return false
	}
	return user.IsAdmin() || user.IsModerator() || user.ID == authorID
}
