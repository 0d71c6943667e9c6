package testutils

import "fmt"

// TestUser is the opaque user record returned by StubUserProvider.
type TestUser struct {
	ID    uint
	Email string
}

// StubUserProvider satisfies the remember-me UserProvider contract with a
// fixed user set.
type StubUserProvider struct {
	Users map[uint]*TestUser
}

func NewStubUserProvider(users ...*TestUser) *StubUserProvider {
	byID := make(map[uint]*TestUser, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return &StubUserProvider{Users: byID}
}

func (p *StubUserProvider) GetUser(userID uint) (any, error) {
	user, ok := p.Users[userID]
	if !ok {
		return nil, fmt.Errorf("user %d not found", userID)
	}
	return user, nil
}
