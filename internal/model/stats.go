package model

// BroadcasterStats summarises one broadcaster's bookings.
type BroadcasterStats struct {
	TotalBookings    int   `json:"total_bookings"`
	ActiveBookings   int   `json:"active_bookings"`
	TotalSpent       int64 `json:"total_spent"`
	UpcomingBookings int   `json:"upcoming_bookings"`
}

// AdminStats are the platform-wide figures shown on the admin dashboard.
// Month figures count rows created since the first of the current month.
type AdminStats struct {
	TotalUsers      int64 `json:"total_users"`
	TotalScreens    int64 `json:"total_screens"`
	TotalBookings   int64 `json:"total_bookings"`
	TotalRevenue    int64 `json:"total_revenue"`
	ActiveScreens   int64 `json:"active_screens"`
	PendingBookings int64 `json:"pending_bookings"`
	MonthlyRevenue  int64 `json:"monthly_revenue"`
	MonthlyBookings int64 `json:"monthly_bookings"`
}
