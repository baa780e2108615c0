package identity

import "time"

// User is the durable, authoritative record of a registered account. A user
// only exists once its registration OTP has been confirmed, so IsActive is
// true from creation and only flips off through administrative action.
type User struct {
	ID           string
	Phone        string
	FirstName    string
	LastName     string
	PasswordHash []byte
	IsActive     bool
	CreatedAt    time.Time
}

// Profile is the public view of a user returned by the API.
type Profile struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	IsActive  bool   `json:"is_active"`
}

// Profile projects the public fields of a user.
func (u User) Profile() Profile {
	return Profile{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		IsActive:  u.IsActive,
	}
}
