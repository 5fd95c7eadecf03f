package model

import "github.com/golang-jwt/jwt/v5"

// AdminClaims are JWT claims for an employer admin session
type AdminClaims struct {
	AdminID    string `json:"adminId"`
	EmployerID string `json:"employerId"`
	jwt.RegisteredClaims
}

// ScreeningClaims are JWT claims for a screening-scoped applicant token
type ScreeningClaims struct {
	ScreeningID string `json:"screeningId"`
	EmployeeID  string `json:"employeeId"`
	jwt.RegisteredClaims
}

// LoginRequest is the admin login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful admin login
type LoginResponse struct {
	Token      string `json:"token"`
	AdminID    string `json:"adminId"`
	EmployerID string `json:"employerId"`
}
