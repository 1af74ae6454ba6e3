package access

import (
	"testing"

	"github.com/stretchr/testify/suite"

	id "tokenguard/pkg/domain"
	dErrors "tokenguard/pkg/domain-errors"
)

var (
	owner    = id.MustAddress("0x1111111111111111111111111111111111111111")
	officer  = id.MustAddress("0x2222222222222222222222222222222222222222")
	provider = id.MustAddress("0x3333333333333333333333333333333333333333")
	stranger = id.MustAddress("0x4444444444444444444444444444444444444444")
)

type AuthoritySuite struct {
	suite.Suite
	authz *Authority
}

func TestAuthoritySuite(t *testing.T) {
	suite.Run(t, new(AuthoritySuite))
}

func (s *AuthoritySuite) SetupTest() {
	s.authz = NewAuthority(owner)
	s.Require().NoError(s.authz.SetComplianceOfficer(owner, officer))
	s.Require().NoError(s.authz.UpdateIdentityProvider(owner, provider, true))
}

func (s *AuthoritySuite) TestRequire() {
	cases := []struct {
		name    string
		caller  id.Address
		cap     Capability
		granted bool
	}{
		{"owner manages policy", owner, CapManagePolicy, true},
		{"owner manages roles", owner, CapManageRoles, true},
		{"owner freezes", owner, CapFreeze, true},
		{"owner manages allowlist", owner, CapManageAllowlist, true},
		{"officer freezes", officer, CapFreeze, true},
		{"officer manages allowlist", officer, CapManageAllowlist, true},
		{"officer cannot manage policy", officer, CapManagePolicy, false},
		{"officer cannot manage roles", officer, CapManageRoles, false},
		{"provider attests", provider, CapAttest, true},
		{"provider cannot freeze", provider, CapFreeze, false},
		{"owner cannot attest", owner, CapAttest, false},
		{"officer cannot attest", officer, CapAttest, false},
		{"stranger has nothing", stranger, CapManagePolicy, false},
		{"zero caller has nothing", id.Address(""), CapFreeze, false},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			err := s.authz.Require(tc.caller, tc.cap)
			if tc.granted {
				s.NoError(err)
			} else {
				s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
			}
		})
	}
}

func (s *AuthoritySuite) TestTransferOwnership() {
	s.Run("non-owner cannot transfer", func() {
		err := s.authz.TransferOwnership(officer, stranger)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.Equal(owner, s.authz.Owner())
	})

	s.Run("zero new owner rejected", func() {
		err := s.authz.TransferOwnership(owner, id.Address(""))
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("owner hands over and loses the role", func() {
		s.Require().NoError(s.authz.TransferOwnership(owner, stranger))
		s.Equal(stranger, s.authz.Owner())

		err := s.authz.TransferOwnership(owner, owner)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized), "old owner keeps no residual authority")
		s.NoError(s.authz.Require(stranger, CapManagePolicy))
	})
}

func (s *AuthoritySuite) TestSetComplianceOfficer() {
	err := s.authz.SetComplianceOfficer(officer, stranger)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

	s.Require().NoError(s.authz.SetComplianceOfficer(owner, stranger))
	s.Equal(stranger, s.authz.ComplianceOfficer())
	s.NoError(s.authz.Require(stranger, CapFreeze))

	err = s.authz.Require(officer, CapFreeze)
	s.Error(err, "replaced officer loses the role")

	// Clearing the officer leaves only the owner able to freeze.
	s.Require().NoError(s.authz.SetComplianceOfficer(owner, id.Address("")))
	s.Error(s.authz.Require(stranger, CapFreeze))
	s.NoError(s.authz.Require(owner, CapFreeze))
}

func (s *AuthoritySuite) TestUpdateIdentityProvider() {
	s.Run("owner only", func() {
		err := s.authz.UpdateIdentityProvider(officer, stranger, true)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.False(s.authz.IsProvider(stranger))
	})

	s.Run("idempotent add and remove", func() {
		s.NoError(s.authz.UpdateIdentityProvider(owner, provider, true))
		s.True(s.authz.IsProvider(provider))

		s.NoError(s.authz.UpdateIdentityProvider(owner, provider, false))
		s.NoError(s.authz.UpdateIdentityProvider(owner, provider, false))
		s.False(s.authz.IsProvider(provider))
		s.Error(s.authz.Require(provider, CapAttest))
	})

	s.Run("zero provider rejected", func() {
		err := s.authz.UpdateIdentityProvider(owner, id.Address(""), true)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}
