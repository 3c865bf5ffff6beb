package dto

// DashboardQuery captures GET /dashboard parameters.
type DashboardQuery struct {
	SchoolCode string `form:"schoolCode" binding:"required"`
	ClassCode  string `form:"classCode" binding:"required"`
	DateFrom   string `form:"dateFrom"`
	DateTo     string `form:"dateTo"`
}

// AttendanceProfileQuery captures GET /students/:code/attendance parameters.
type AttendanceProfileQuery struct {
	SchoolCode string `form:"schoolCode" binding:"required"`
	ClassCode  string `form:"classCode" binding:"required"`
	SchoolYear int    `form:"schoolYear" binding:"required"`
}
