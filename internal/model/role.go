package model

// Role 身份令牌中携带的角色，员工本身由外部身份系统管理
type Role string

const (
	RoleEmployee Role = "employee"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
)
