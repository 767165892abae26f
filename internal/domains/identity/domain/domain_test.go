package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleCustomer.Can(CapabilityPlaceOrder))
	assert.False(t, RoleManager.Can(CapabilityPlaceOrder))
	assert.False(t, RoleAdmin.Can(CapabilityPlaceOrder))
	assert.True(t, RoleManager.Can(CapabilityEditProducts))
	assert.False(t, RoleManager.Can(CapabilityDeleteProducts))
	assert.True(t, RoleAdmin.Can(CapabilityDeleteProducts))
	assert.True(t, RoleAdmin.Can(CapabilityManageUsers))
	assert.True(t, RoleCourier.Can(CapabilityLogout))
	assert.False(t, RoleGuest.Can(CapabilityLogout))
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole(4)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	_, err = ParseRole(9)
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestGuestActorHasNoCapabilities(t *testing.T) {
	guest := Guest()
	assert.False(t, guest.Authenticated())
	for _, c := range RoleAdmin.Capabilities() {
		assert.False(t, guest.Can(c))
	}

	// a role alone without an account id is not enough
	assert.False(t, Actor{Role: RoleCustomer}.Can(CapabilityPlaceOrder))
	assert.True(t, Actor{ID: 1, Kind: KindCustomer, Role: RoleCustomer}.Can(CapabilityPlaceOrder))
}

func TestOrderingCapabilitiesRequireCustomerAccount(t *testing.T) {
	// employee #7 shares its id with customer #7
	employee := Actor{ID: 7, Kind: KindEmployee, Role: RoleCustomer}
	assert.False(t, employee.Can(CapabilityPlaceOrder))
	assert.False(t, employee.Can(CapabilityViewOwnOrders))
	assert.True(t, employee.Can(CapabilityBrowseCatalog))
	assert.NotContains(t, employee.Capabilities(), CapabilityPlaceOrder)

	customer := Actor{ID: 7, Kind: KindCustomer, Role: RoleCustomer}
	assert.True(t, customer.Can(CapabilityPlaceOrder))
	assert.True(t, customer.Can(CapabilityViewOwnOrders))
	assert.ElementsMatch(t, RoleCustomer.Capabilities(), customer.Capabilities())
}

func TestAccountChangeRoleRespectsKind(t *testing.T) {
	cases := []struct {
		name string
		kind AccountKind
		role Role
		want error
	}{
		{"customer stays customer", KindCustomer, RoleCustomer, nil},
		{"customer to manager", KindCustomer, RoleManager, ErrRoleKindMismatch},
		{"customer to admin", KindCustomer, RoleAdmin, ErrRoleKindMismatch},
		{"employee to courier", KindEmployee, RoleCourier, nil},
		{"employee to admin", KindEmployee, RoleAdmin, nil},
		{"employee to customer", KindEmployee, RoleCustomer, ErrRoleKindMismatch},
		{"guest", KindEmployee, RoleGuest, ErrGuestRole},
		{"unknown", KindEmployee, Role(42), ErrUnknownRole},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			acc := Account{ID: 7, Kind: tc.kind, Role: RoleCustomer}
			if tc.kind == KindEmployee {
				acc.Role = RoleManager
			}
			before := acc.Role
			err := acc.ChangeRole(tc.role)
			if tc.want == nil {
				require.NoError(t, err)
				assert.Equal(t, tc.role, acc.Role)
				return
			}
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, before, acc.Role)
		})
	}
}

func TestCredentialsValidate(t *testing.T) {
	cases := []struct {
		name  string
		creds Credentials
		want  error
	}{
		{"ok", Credentials{Email: "ann@example.com", Password: "secret1"}, nil},
		{"missing email", Credentials{Password: "secret1"}, ErrEmptyEmail},
		{"bad email", Credentials{Email: "ann", Password: "secret1"}, ErrInvalidEmail},
		{"display name form", Credentials{Email: "Ann <ann@example.com>", Password: "secret1"}, ErrInvalidEmail},
		{"long email", Credentials{Email: "a123456789012345678901234567890123456789@example.com", Password: "secret1"}, ErrEmailTooLong},
		{"missing password", Credentials{Email: "ann@example.com"}, ErrEmptyPassword},
		{"short password", Credentials{Email: "ann@example.com", Password: "abc"}, ErrPasswordLength},
		{"control char", Credentials{Email: "ann@example.com", Password: "secret\t1"}, ErrPasswordControl},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.creds.Validate()
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRegistrationValidate(t *testing.T) {
	valid := Registration{
		LastName:        "Ivanova",
		FirstName:       "Anna",
		Email:           "anna@example.com",
		Phone:           "8 (912) 345-67-89",
		Password:        "Str0ng!pw",
		ConfirmPassword: "Str0ng!pw",
	}
	require.NoError(t, valid.Validate())

	weak := valid
	weak.Password, weak.ConfirmPassword = "weakpass", "weakpass"
	require.ErrorIs(t, weak.Validate(), ErrWeakPassword)

	spaced := valid
	spaced.Password, spaced.ConfirmPassword = "Str0ng! pw", "Str0ng! pw"
	require.ErrorIs(t, spaced.Validate(), ErrPasswordSpaces)

	mismatch := valid
	mismatch.ConfirmPassword = "Other0!x"
	require.ErrorIs(t, mismatch.Validate(), ErrPasswordMismatch)

	phone := valid
	phone.Phone = "12345"
	require.ErrorIs(t, phone.Validate(), ErrInvalidPhone)

	account := valid.Account()
	assert.Equal(t, KindCustomer, account.Kind)
	assert.Equal(t, RoleCustomer, account.Role)
	assert.Equal(t, "Ivanova Anna", account.FullName())
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := &Session{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(2*time.Minute)))
	assert.False(t, (&Session{}).Expired(now))
}
