package storefrontserver

import (
	identitydomain "github.com/Apurer/storefront-api/internal/domains/identity/domain"
)

type RegisterRequest struct {
	LastName        string `json:"lastName"`
	FirstName       string `json:"firstName"`
	MiddleName      string `json:"middleName,omitempty"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type ChangeRoleRequest struct {
	Role int `json:"role"`
}

// Account never carries the password.
type Account struct {
	ID         int64  `json:"id"`
	Kind       string `json:"kind"`
	LastName   string `json:"lastName"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName,omitempty"`
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Role       string `json:"role"`
	RoleID     int    `json:"roleId"`
}

func (r RegisterRequest) toDomain() identitydomain.Registration {
	return identitydomain.Registration{
		LastName:        r.LastName,
		FirstName:       r.FirstName,
		MiddleName:      r.MiddleName,
		Email:           r.Email,
		Phone:           r.Phone,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
	}
}

func fromDomainAccount(a *identitydomain.Account) Account {
	return Account{
		ID:         a.ID,
		Kind:       string(a.Kind),
		LastName:   a.LastName,
		FirstName:  a.FirstName,
		MiddleName: a.MiddleName,
		FullName:   a.FullName(),
		Email:      a.Email,
		Phone:      a.Phone,
		Role:       a.Role.String(),
		RoleID:     int(a.Role),
	}
}

func fromDomainAccounts(accounts []*identitydomain.Account) []Account {
	out := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, fromDomainAccount(a))
	}
	return out
}
