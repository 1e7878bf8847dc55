package domain

import "time"

type User struct {
	UserID       string     `json:"id"`
	MKID         string     `json:"mkid"`
	Email        string     `json:"email"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	RegisterNo   string     `json:"register_no"`
	MobileNo     string     `json:"mobile_no"`
	PasswordHash string     `json:"-"`
	DateOfBirth  Date       `json:"date_of_birth"`
	ReceiptNo    string     `json:"receipt_no,omitempty"`
	Intercollege bool       `json:"intercollege"`
	IsEnrolled   bool       `json:"is_enrolled"`
	IsFaculty    bool       `json:"is_faculty"`
	Student      *Student   `json:"student,omitempty"`
	CreatedAt    time.Time  `json:"created"`
	UpdatedAt    time.Time  `json:"updated"`
}

// Student holds the institutional details attached one-to-one to a
// participant account. Faculty accounts never own one.
type Student struct {
	CollegeName  string    `json:"college_name"`
	Branch       string    `json:"branch"`
	Dept         string    `json:"dept"`
	YearOfStudy  int       `json:"year_of_study"`
	Tshirt       bool      `json:"tshirt"`
	RegisteredAt time.Time `json:"registered_at,omitempty"`
}

type RegistrationRequest struct {
	Email        string          `json:"email" validate:"required,email"`
	Password     string          `json:"password" validate:"required,min=8,max=72"`
	FirstName    string          `json:"first_name" validate:"required"`
	LastName     string          `json:"last_name" validate:"required"`
	RegisterNo   string          `json:"register_no" validate:"required"`
	MobileNo     string          `json:"mobile_no" validate:"required"`
	DateOfBirth  string          `json:"date_of_birth" validate:"required"` // expected format: YYYY-MM-DD
	Intercollege bool            `json:"intercollege"`
	IsFaculty    bool            `json:"is_faculty"`
	Student      *StudentDetails `json:"student,omitempty" validate:"required_if=IsFaculty false"`
}

type StudentDetails struct {
	CollegeName string `json:"college_name" validate:"required"`
	Branch      string `json:"branch" validate:"required"`
	Dept        string `json:"dept" validate:"required"`
	YearOfStudy int    `json:"year_of_study" validate:"required,min=1,max=6"`
	Tshirt      bool   `json:"tshirt"`
}
