package model

import (
	"regexp"
	"strings"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{1,30}$`)
	passwordPattern = regexp.MustCompile(`^[A-Za-z\d]{8,30}$`)
	hasLetter       = regexp.MustCompile(`[A-Za-z]`)
	hasDigit        = regexp.MustCompile(`\d`)
)

// PasswordRule is the message returned whenever a password is rejected.
const PasswordRule = "Password must be 8-30 characters long, contain no spaces and include at least one letter and one number"

// User mirrors the Users table.  PasswordHash and IsAdmin never leave the
// server; responses use AccountView or ProfileView.
//
// Fields:
//
//	ID           – Users.UserID primary key.
//	Username     – unique login name.
//	PasswordHash – bcrypt hash of the password.
//	Forename     – given name.
//	Surname      – family name.
//	Age          – age in years.
//	Height       – height (cm).
//	Weight       – weight (kg).
//	IsAdmin      – privilege flag (Users.Admin = 1).
type User struct {
	ID           uint64  // Users.UserID
	Username     string  // Users.Username
	PasswordHash string  // Users.Password
	Forename     string  // Users.Forename
	Surname      string  // Users.Surname
	Age          int     // Users.Age
	Height       float64 // Users.Height
	Weight       float64 // Users.Weight
	IsAdmin      bool    // Users.Admin
}

// AccountInput is the registration body.  Pointer fields distinguish an
// absent value from a zero value.
type AccountInput struct {
	Username *string  `json:"Username"`
	Password *string  `json:"Password"`
	Forename *string  `json:"Forename"`
	Surname  *string  `json:"Surname"`
	Age      *int     `json:"Age"`
	Height   *float64 `json:"Height"`
	Weight   *float64 `json:"Weight"`
}

// Account is a validated registration: the profile fields plus the plain
// password that still has to be hashed.
type Account struct {
	ID       uint64
	Username string
	Password string
	Forename string
	Surname  string
	Age      int
	Height   float64
	Weight   float64
}

// AccountView is the public form of an account.  It carries no password and
// no privilege flag.
type AccountView struct {
	UserID   uint64  `json:"UserID" xml:"UserID"`
	Username string  `json:"Username" xml:"Username"`
	Forename string  `json:"Forename" xml:"Forename"`
	Surname  string  `json:"Surname" xml:"Surname"`
	Age      int     `json:"Age" xml:"Age"`
	Height   float64 `json:"Height" xml:"Height"`
	Weight   float64 `json:"Weight" xml:"Weight"`
}

// NewAccount validates a registration body.
func NewAccount(in AccountInput) (Account, error) {
	var a Account
	username := str(in.Username)
	if !usernamePattern.MatchString(username) {
		return a, invalid("Username", "Username must be 1-30 characters and contain only letters, numbers, or underscores")
	}
	password := str(in.Password)
	if err := ValidatePassword(password); err != nil {
		return a, err
	}
	forename := strings.TrimSpace(str(in.Forename))
	if forename == "" {
		return a, invalid("Forename", "Forename is required")
	}
	surname := strings.TrimSpace(str(in.Surname))
	if surname == "" {
		return a, invalid("Surname", "Surname is required")
	}
	if in.Age == nil || *in.Age < 0 || *in.Age > 150 {
		return a, invalid("Age", "Age must be an integer between 0 and 150")
	}
	if in.Height == nil || *in.Height <= 0 {
		return a, invalid("Height", "Height must be a positive number")
	}
	if in.Weight == nil || *in.Weight <= 0 {
		return a, invalid("Weight", "Weight must be a positive number")
	}
	return Account{
		Username: username,
		Password: password,
		Forename: forename,
		Surname:  surname,
		Age:      *in.Age,
		Height:   *in.Height,
		Weight:   *in.Weight,
	}, nil
}

// View returns the public representation of the account.
func (a Account) View() AccountView {
	return AccountView{
		UserID:   a.ID,
		Username: a.Username,
		Forename: a.Forename,
		Surname:  a.Surname,
		Age:      a.Age,
		Height:   a.Height,
		Weight:   a.Weight,
	}
}

// AccountView returns the login-time representation of a stored user.
func (u User) AccountView() AccountView {
	return AccountView{
		UserID:   u.ID,
		Username: u.Username,
		Forename: u.Forename,
		Surname:  u.Surname,
		Age:      u.Age,
		Height:   u.Height,
		Weight:   u.Weight,
	}
}

// ValidatePassword enforces the password rule used at registration and on
// every reset.
func ValidatePassword(p string) error {
	if !passwordPattern.MatchString(p) || !hasLetter.MatchString(p) || !hasDigit.MatchString(p) {
		return invalid("Password", PasswordRule)
	}
	return nil
}

// ProfileInput is the PATCH /profile body.
type ProfileInput struct {
	Forename *string  `json:"Forename"`
	Surname  *string  `json:"Surname"`
	Age      *int     `json:"Age"`
	Height   *float64 `json:"Height"`
	Weight   *float64 `json:"Weight"`
}

// Profile holds the editable, non-credential part of a user.
type Profile struct {
	ID       uint64
	Forename string
	Surname  string
	Age      int
	Height   float64
	Weight   float64
}

// ProfileView is the public representation of a profile.
type ProfileView struct {
	UserID   uint64  `json:"UserID" xml:"UserID"`
	Forename string  `json:"Forename" xml:"Forename"`
	Surname  string  `json:"Surname" xml:"Surname"`
	Age      int     `json:"Age" xml:"Age"`
	Height   float64 `json:"Height" xml:"Height"`
	Weight   float64 `json:"Weight" xml:"Weight"`
}

// Profile returns the profile part of a stored user.
func (u User) Profile() Profile {
	return Profile{ID: u.ID, Forename: u.Forename, Surname: u.Surname, Age: u.Age, Height: u.Height, Weight: u.Weight}
}

// Merge overlays the fields present in the input on top of current.
func (in ProfileInput) Merge(current Profile) ProfileInput {
	out := ProfileInput{
		Forename: &current.Forename,
		Surname:  &current.Surname,
		Age:      &current.Age,
		Height:   &current.Height,
		Weight:   &current.Weight,
	}
	if in.Forename != nil {
		out.Forename = in.Forename
	}
	if in.Surname != nil {
		out.Surname = in.Surname
	}
	if in.Age != nil {
		out.Age = in.Age
	}
	if in.Height != nil {
		out.Height = in.Height
	}
	if in.Weight != nil {
		out.Weight = in.Weight
	}
	return out
}

// NewProfile validates profile fields.  Names may not contain spaces.
func NewProfile(id uint64, in ProfileInput) (Profile, error) {
	var p Profile
	forename := str(in.Forename)
	if forename == "" || len([]rune(forename)) > 30 || strings.Contains(forename, " ") {
		return p, invalid("Forename", "Forename must not contain spaces and be between 1 and 30 characters")
	}
	surname := str(in.Surname)
	if surname == "" || len([]rune(surname)) > 30 || strings.Contains(surname, " ") {
		return p, invalid("Surname", "Surname must not contain spaces and be between 1 and 30 characters")
	}
	if in.Age == nil || *in.Age < 0 || *in.Age > 150 {
		return p, invalid("Age", "Age must be an integer between 0 and 150")
	}
	if in.Height == nil || *in.Height <= 0 {
		return p, invalid("Height", "Height must be a positive number")
	}
	if in.Weight == nil || *in.Weight <= 0 {
		return p, invalid("Weight", "Weight must be a positive number")
	}
	return Profile{ID: id, Forename: forename, Surname: surname, Age: *in.Age, Height: *in.Height, Weight: *in.Weight}, nil
}

// View returns the public representation of the profile.
func (p Profile) View() ProfileView {
	return ProfileView{UserID: p.ID, Forename: p.Forename, Surname: p.Surname, Age: p.Age, Height: p.Height, Weight: p.Weight}
}
