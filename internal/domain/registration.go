package domain

// PendingRegistration is the validated registration payload held in the
// ephemeral store between OTP issuance and confirmation. The password is
// still plaintext here; it is hashed by the enrollment writer at commit
// time and never persisted durably in the clear.
type PendingRegistration struct {
	Email        string          `json:"email"`
	Password     string          `json:"password"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	RegisterNo   string          `json:"register_no"`
	MobileNo     string          `json:"mobile_no"`
	DateOfBirth  Date            `json:"date_of_birth"`
	Intercollege bool            `json:"intercollege"`
	IsFaculty    bool            `json:"is_faculty"`
	Student      *StudentDetails `json:"student,omitempty"`
}
