package sanitizer

import (
	"bkhost/pkg/model"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	freeText = Pipeline{TrimAndNormalize}
	notes    = Pipeline{NormalizeNotes}
	email    = Pipeline{NormalizeEmail}
)

func applyPtr(p Pipeline, s *string) {
	if s != nil {
		*s = p.Apply(*s)
	}
}

func SanitizeWalkIn(req *model.WalkInRequest) {
	req.BikeType = freeText.Apply(req.BikeType)
	req.ServiceType = freeText.Apply(req.ServiceType)
	req.Notes = notes.Apply(req.Notes)
}

func SanitizeWalkInUpdate(u *model.WalkInUpdate) {
	applyPtr(freeText, u.BikeType)
	applyPtr(freeText, u.ServiceType)
	applyPtr(notes, u.Notes)
}

func SanitizeSignUp(req *model.SignUpRequest) {
	req.Email = email.Apply(req.Email)
	req.DisplayName = freeText.Apply(req.DisplayName)
}

func SanitizeSignIn(req *model.SignInRequest) {
	req.Email = email.Apply(req.Email)
}

func SanitizeProfileUpdate(u *model.ProfileUpdate) {
	applyPtr(freeText, u.DisplayName)
	applyPtr(Pipeline{TrimAndNormalize, lower}, u.Role)
}

// SanitizeContact returns a copy of c with the phone in E.164 when it parses
// in region.
func SanitizeContact(c model.ContactInfo, region string) model.ContactInfo {
	c.Name = freeText.Apply(c.Name)
	c.Email = email.Apply(c.Email)
	c.PhoneNumber = DisplayPhone(c.PhoneNumber, region)
	return c
}
