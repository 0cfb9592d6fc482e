package domain

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserRole  CtxKey = "Role"
	KeyUserName  CtxKey = "Name"
)

// User roles
const (
	RoleCandidate = "candidate"
	RoleCompany   = "company"
)
