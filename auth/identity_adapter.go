package auth

// UserIdentity adapts a User into the Identity interface for token generation.
type UserIdentity struct {
	user *User
}

// NewIdentityFromUser returns an Identity adapter for the provided user.
func NewIdentityFromUser(user *User) Identity {
	if user == nil {
		return nil
	}
	return UserIdentity{user: user}
}

// ID returns the user's ID as a string.
func (u UserIdentity) ID() string {
	if u.user == nil {
		return ""
	}
	return u.user.ID.String()
}

// Phone returns the user's phone number.
func (u UserIdentity) Phone() string {
	if u.user == nil {
		return ""
	}
	return u.user.Phone
}

// Nickname returns the user's display name.
func (u UserIdentity) Nickname() string {
	if u.user == nil {
		return ""
	}
	return u.user.Nickname
}

// Scope returns the capability strings stamped into issued tokens.
func (u UserIdentity) Scope() []string {
	return DefaultScope()
}

// Status returns the user's lifecycle status.
func (u UserIdentity) Status() UserStatus {
	if u.user == nil {
		return ""
	}
	return u.user.Status
}

var _ Identity = UserIdentity{}

// claimsIdentity adapts verified claims back into an Identity so the refresh
// path can mint a new access token carrying the same subject/phone/scope.
type claimsIdentity struct {
	claims AuthClaims
}

func (c claimsIdentity) ID() string       { return c.claims.UserID() }
func (c claimsIdentity) Phone() string    { return c.claims.UserPhone() }
func (c claimsIdentity) Nickname() string { return "" }
func (c claimsIdentity) Scope() []string  { return c.claims.UserScope() }

var _ Identity = claimsIdentity{}
