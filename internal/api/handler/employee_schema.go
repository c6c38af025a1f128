package handler

type createEmployeeRequest struct {
	EmployeeCode  string `json:"employee_code"   validate:"omitempty,max=32"`
	FullName      string `json:"full_name"       validate:"required,max=120"`
	Email         string `json:"email"           validate:"omitempty,email"`
	Phone         string `json:"phone"           validate:"omitempty,max=32"`
	Department    string `json:"department"      validate:"omitempty,max=80"`
	Designation   string `json:"designation"     validate:"omitempty,max=80"`
	DateOfJoining string `json:"date_of_joining" validate:"omitempty,datetime=2006-01-02"`
}

// updateEmployeeRequest is a partial update; absent fields are left untouched.
type updateEmployeeRequest struct {
	FullName      *string `json:"full_name"       validate:"omitempty,max=120"`
	Email         *string `json:"email"           validate:"omitempty,email"`
	Phone         *string `json:"phone"           validate:"omitempty,max=32"`
	Department    *string `json:"department"      validate:"omitempty,max=80"`
	Designation   *string `json:"designation"     validate:"omitempty,max=80"`
	DateOfJoining *string `json:"date_of_joining" validate:"omitempty,datetime=2006-01-02"`
	Status        *string `json:"status"          validate:"omitempty,oneof=active inactive"`
}

type enrollRequest struct {
	Image string `json:"image"`
}

type enrollResponse struct {
	EmployeeID   string `json:"employee_id"`
	FaceIdentity string `json:"face_identity"`
}

type createDepartmentRequest struct {
	Name        string `json:"name"        validate:"max=80"`
	Description string `json:"description" validate:"max=500"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type adminResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type loginResponse struct {
	Token string        `json:"token"`
	User  adminResponse `json:"user"`
}
