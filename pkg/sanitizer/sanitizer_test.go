package sanitizer

import (
	"testing"

	"bkhost/pkg/model"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestSanitizeWalkIn(t *testing.T) {
	req := model.WalkInRequest{
		BikeType:    "  city   bike ",
		ServiceType: "flat tyre",
		Notes:       " rear wheel \n  tube replaced ",
	}

	SanitizeWalkIn(&req)

	assert.Equal(t, "city bike", req.BikeType)
	assert.Equal(t, "flat tyre", req.ServiceType)
	assert.Equal(t, "rear wheel\ntube replaced", req.Notes)
}

func TestSanitizeWalkInUpdate_OnlyTouchesPresentFields(t *testing.T) {
	u := model.WalkInUpdate{BikeType: strPtr("  cargo  bike")}

	SanitizeWalkInUpdate(&u)

	assert.Equal(t, "cargo bike", *u.BikeType)
	assert.Nil(t, u.ServiceType)
	assert.Nil(t, u.Notes)
}

func TestSanitizeProfileUpdate(t *testing.T) {
	u := model.ProfileUpdate{DisplayName: strPtr(" Sam  "), Role: strPtr(" Mechanic ")}

	SanitizeProfileUpdate(&u)

	assert.Equal(t, "Sam", *u.DisplayName)
	assert.Equal(t, "mechanic", *u.Role)
}

func TestSanitizeSignUp(t *testing.T) {
	req := model.SignUpRequest{Email: " Sam@Shop.NL", DisplayName: " Sam   R "}

	SanitizeSignUp(&req)

	assert.Equal(t, "sam@shop.nl", req.Email)
	assert.Equal(t, "Sam R", req.DisplayName)
}

func TestSanitizeContact(t *testing.T) {
	c := SanitizeContact(model.ContactInfo{
		Name:        " Jo ",
		PhoneNumber: "06 12345678",
		Email:       "Jo@Example.org",
	}, "NL")

	assert.Equal(t, model.ContactInfo{Name: "Jo", PhoneNumber: "+31612345678", Email: "jo@example.org"}, c)
}
