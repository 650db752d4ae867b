package model

import "fmt"

func validatePasswordField(errors []FieldError, password string) []FieldError {
	if password == "" {
		return append(errors, FieldError{Field: "password", Message: "password is required"})
	}
	if len(password) < MinPasswordLength {
		return append(errors, FieldError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength)})
	}
	if len(password) > MaxPasswordLength {
		return append(errors, FieldError{Field: "password", Message: fmt.Sprintf("password must be at most %d characters", MaxPasswordLength)})
	}
	return errors
}

func validProfileGender(g string) bool {
	return g == GenderMale || g == GenderFemale || g == GenderDiverse
}

// Validate checks a registration request.
func (r *RegisterRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Email == "" {
		errors = append(errors, FieldError{Field: "email", Message: "email is required"})
	} else if len(r.Email) > MaxEmailLength {
		errors = append(errors, FieldError{Field: "email", Message: "email too long"})
	}
	errors = validatePasswordField(errors, r.Password)
	if r.Nickname == "" {
		errors = append(errors, FieldError{Field: "nickname", Message: "nickname is required"})
	} else if len(r.Nickname) > MaxNicknameLength {
		errors = append(errors, FieldError{Field: "nickname", Message: "nickname too long"})
	}

	return errors
}

// Validate checks an administrative user creation request.
func (r *CreateUserRequest) Validate() []FieldError {
	reg := RegisterRequest{Email: r.Email, Password: r.Password, Nickname: r.Nickname}
	return reg.Validate()
}

// Validate checks a partial user edit.
func (r *UpdateUserRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Email != nil && (*r.Email == "" || len(*r.Email) > MaxEmailLength) {
		errors = append(errors, FieldError{Field: "email", Message: "invalid email"})
	}
	if r.Password != nil {
		errors = validatePasswordField(errors, *r.Password)
	}
	if r.Nickname != nil && (*r.Nickname == "" || len(*r.Nickname) > MaxNicknameLength) {
		errors = append(errors, FieldError{Field: "nickname", Message: "invalid nickname"})
	}
	if r.Gender != nil && !validProfileGender(*r.Gender) {
		errors = append(errors, FieldError{Field: "gender", Message: "gender must be m, w, or d"})
	}
	if r.Country != nil && len(*r.Country) != CountryCodeLength {
		errors = append(errors, FieldError{Field: "country", Message: "country must be a 2-letter code"})
	}
	if r.Hardware != nil && len(*r.Hardware) > MaxFreeTextLength {
		errors = append(errors, FieldError{Field: "hardware", Message: fmt.Sprintf("hardware must be %d characters or less", MaxFreeTextLength)})
	}
	if r.Statements != nil && len(*r.Statements) > MaxFreeTextLength {
		errors = append(errors, FieldError{Field: "statements", Message: fmt.Sprintf("statements must be %d characters or less", MaxFreeTextLength)})
	}

	return errors
}

// Validate checks a clan creation request.
func (r *CreateClanRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name is required"})
	} else if len(r.Name) > MaxClanNameLength {
		errors = append(errors, FieldError{Field: "name", Message: fmt.Sprintf("name must be %d characters or less", MaxClanNameLength)})
	}
	if r.Tag == "" {
		errors = append(errors, FieldError{Field: "tag", Message: "tag is required"})
	} else if len(r.Tag) > MaxClanTagLength {
		errors = append(errors, FieldError{Field: "tag", Message: fmt.Sprintf("tag must be %d characters or less", MaxClanTagLength)})
	}
	errors = validatePasswordField(errors, r.Password)
	if r.Description != nil && len(*r.Description) > MaxClanDescLength {
		errors = append(errors, FieldError{Field: "description", Message: fmt.Sprintf("description must be %d characters or less", MaxClanDescLength)})
	}

	return errors
}

// Validate checks a partial clan edit.
func (r *UpdateClanRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name != nil && (*r.Name == "" || len(*r.Name) > MaxClanNameLength) {
		errors = append(errors, FieldError{Field: "name", Message: "invalid name"})
	}
	if r.Tag != nil && (*r.Tag == "" || len(*r.Tag) > MaxClanTagLength) {
		errors = append(errors, FieldError{Field: "tag", Message: "invalid tag"})
	}
	if r.Password != nil {
		errors = validatePasswordField(errors, *r.Password)
	}
	if r.Description != nil && len(*r.Description) > MaxClanDescLength {
		errors = append(errors, FieldError{Field: "description", Message: fmt.Sprintf("description must be %d characters or less", MaxClanDescLength)})
	}

	return errors
}
