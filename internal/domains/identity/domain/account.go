package domain

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"
)

const (
	maxNameLength     = 50
	maxEmailLength    = 50
	minPasswordLength = 6
	maxPasswordLength = 50
	minPhoneDigits    = 10
)

var (
	ErrEmptyEmail         = errors.New("email is required")
	ErrEmailTooLong       = errors.New("email must be at most 50 characters")
	ErrInvalidEmail       = errors.New("email is not a valid address")
	ErrEmptyPassword      = errors.New("password is required")
	ErrPasswordLength     = errors.New("password must be between 6 and 50 characters")
	ErrPasswordControl    = errors.New("password must not contain control characters")
	ErrPasswordSpaces     = errors.New("password must not contain spaces")
	ErrWeakPassword       = errors.New("password must contain upper and lower case letters, a digit and a special character")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrEmptyLastName      = errors.New("last name is required")
	ErrEmptyFirstName     = errors.New("first name is required")
	ErrNameTooLong        = errors.New("names must be at most 50 characters")
	ErrInvalidPhone       = errors.New("phone must contain at least 10 digits")
	ErrInvalidAccountKind = errors.New("account kind must be customer or employee")
	ErrGuestRole          = errors.New("accounts cannot be assigned the guest role")
	ErrRoleKindMismatch   = errors.New("role does not match the account kind")
)

// Account is a customer or employee record able to sign in.
//
// Passwords are stored and compared as plaintext, a known weakness carried
// over from the system this service replaces. Do not expose this beyond a
// trusted network without adding hashing.
type Account struct {
	ID         int64
	Kind       AccountKind
	LastName   string
	FirstName  string
	MiddleName string
	Email      string
	Phone      string
	Password   string
	Role       Role
}

// FullName joins the name parts that are present.
func (a *Account) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.LastName, a.FirstName, a.MiddleName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Actor projects the account into the request principal.
func (a *Account) Actor() Actor {
	return Actor{ID: a.ID, Kind: a.Kind, Role: a.Role, Email: a.Email, DisplayName: a.FullName()}
}

// CheckPassword compares the stored password with the supplied one.
func (a *Account) CheckPassword(password string) bool {
	return password != "" && a.Password == password
}

// ChangeRole assigns a known, non-guest role that fits the account kind.
// Customers stay customers and employees keep a staff role.
func (a *Account) ChangeRole(role Role) error {
	if _, err := ParseRole(int(role)); err != nil {
		return err
	}
	if role == RoleGuest {
		return ErrGuestRole
	}
	if !role.AllowedFor(a.Kind) {
		return fmt.Errorf("%w: %s cannot hold %s", ErrRoleKindMismatch, a.Kind, role)
	}
	a.Role = role
	return nil
}

// Credentials are the inputs of a sign-in attempt.
type Credentials struct {
	Email    string
	Password string
}

// Normalize trims the email. The password is used verbatim.
func (c Credentials) Normalize() Credentials {
	c.Email = strings.TrimSpace(c.Email)
	return c
}

// Validate applies the sign-in form rules.
func (c Credentials) Validate() error {
	if err := ValidateEmail(c.Email); err != nil {
		return err
	}
	if c.Password == "" {
		return ErrEmptyPassword
	}
	if n := len([]rune(c.Password)); n < minPasswordLength || n > maxPasswordLength {
		return ErrPasswordLength
	}
	for _, r := range c.Password {
		if unicode.IsControl(r) {
			return ErrPasswordControl
		}
	}
	return nil
}

// Registration carries a new customer's sign-up form.
type Registration struct {
	LastName        string
	FirstName       string
	MiddleName      string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

// Validate applies the sign-up rules. Email uniqueness is checked by the service.
func (r Registration) Validate() error {
	last := strings.TrimSpace(r.LastName)
	first := strings.TrimSpace(r.FirstName)
	switch {
	case last == "":
		return ErrEmptyLastName
	case first == "":
		return ErrEmptyFirstName
	case len([]rune(last)) > maxNameLength || len([]rune(first)) > maxNameLength ||
		len([]rune(strings.TrimSpace(r.MiddleName))) > maxNameLength:
		return ErrNameTooLong
	}
	if err := ValidateEmail(strings.TrimSpace(r.Email)); err != nil {
		return err
	}
	if countDigits(r.Phone) < minPhoneDigits {
		return ErrInvalidPhone
	}
	if err := validateNewPassword(r.Password); err != nil {
		return err
	}
	if r.ConfirmPassword != r.Password {
		return ErrPasswordMismatch
	}
	return nil
}

// Account builds the customer account described by the registration.
func (r Registration) Account() *Account {
	return &Account{
		Kind:       KindCustomer,
		LastName:   strings.TrimSpace(r.LastName),
		FirstName:  strings.TrimSpace(r.FirstName),
		MiddleName: strings.TrimSpace(r.MiddleName),
		Email:      strings.TrimSpace(r.Email),
		Phone:      strings.TrimSpace(r.Phone),
		Password:   r.Password,
		Role:       RoleCustomer,
	}
}

// ValidateEmail checks presence, length and that the value is a bare address.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmptyEmail
	}
	if len([]rune(email)) > maxEmailLength {
		return ErrEmailTooLong
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

func validateNewPassword(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if n := len([]rune(password)); n < minPasswordLength || n > maxPasswordLength {
		return ErrPasswordLength
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsSpace(r):
			return ErrPasswordSpaces
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r):
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return ErrWeakPassword
	}
	return nil
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
