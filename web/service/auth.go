package service

import (
	"strings"

	"github.com/otedola/cadastral/database/model"
	"github.com/otedola/cadastral/logger"
	"github.com/otedola/cadastral/web/session"
)

// AuthService manages the login session of one browsing tab. The session
// handle is passed in on every call; the service itself holds no session state.
type AuthService struct {
	users *UserService
}

func NewAuthService(users *UserService) *AuthService {
	return &AuthService{users: users}
}

// Login checks the credentials and, on success, records parcelId in s.
// On failure s is left as it was.
func (a *AuthService) Login(s session.Store, parcelId string, password string) (*model.User, error) {
	parcelId = strings.TrimSpace(parcelId)
	if parcelId == "" || password == "" {
		return nil, ErrValidation
	}
	user, err := a.users.CheckUser(parcelId, password)
	if err != nil {
		return nil, err
	}
	if err := session.SetLoginParcel(s, user.ParcelId); err != nil {
		return nil, err
	}
	logger.Infof("parcel %s logged in", user.ParcelId)
	return user, nil
}

// Logout clears s. Logging out twice is fine.
func (a *AuthService) Logout(s session.Store) error {
	if pid := session.GetLoginParcel(s); pid != "" {
		logger.Infof("parcel %s logged out", pid)
	}
	return session.ClearSession(s)
}

// CurrentParcelId returns the signed-in parcel id, or "".
func (a *AuthService) CurrentParcelId(s session.Store) string {
	return session.GetLoginParcel(s)
}

// RequireSession returns the signed-in parcel id, or ErrNoSession when the
// caller should be sent to the login surface.
func (a *AuthService) RequireSession(s session.Store) (string, error) {
	pid := session.GetLoginParcel(s)
	if pid == "" {
		return "", ErrNoSession
	}
	return pid, nil
}
