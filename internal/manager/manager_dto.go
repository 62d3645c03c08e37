package manager

type LinkEmployeeRequest struct {
	UserID      string  `json:"user_id" binding:"required,uuid"`
	FullName    string  `json:"full_name" binding:"required"`
	Role        string  `json:"role" binding:"required"`
	JobTitle    *string `json:"job_title"`
	Department  *string `json:"department"`
	ManagerCode *string `json:"manager_code"`
}

type LinkEmployeeResult struct {
	EmployeeID   string  `json:"employee_id"`
	Created      bool    `json:"created"`
	RoleAssigned bool    `json:"role_assigned"`
	ManagerCode  *string `json:"manager_code,omitempty"`
	CodeVerified bool    `json:"code_verified"`
	// Warning is set when the supplied manager code could not be verified
	// but was stored anyway for later reconciliation.
	Warning string `json:"warning,omitempty"`
}

type ValidateCodeResponse struct {
	Code              string `json:"code"`
	ManagerEmployeeID string `json:"manager_employee_id"`
	ManagerName       string `json:"manager_name"`
}
