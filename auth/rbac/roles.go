// Package rbac defines the static role and permission model shared by the
// gateway and the auth service.
//
// Four roles exist: admin, manager, user, viewer. Permission sets are
// fixed at compile time; tenants cannot define custom roles.
package rbac

// Role is a user role name.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
	RoleViewer  Role = "viewer"
)

// Permission is a named capability.
type Permission string

// User management
const (
	PermCreateUser Permission = "create_user"
	PermReadUser   Permission = "read_user"
	PermUpdateUser Permission = "update_user"
	PermDeleteUser Permission = "delete_user"
)

// Dashboard access
const (
	PermViewDashboard Permission = "view_dashboard"
	PermViewAnalytics Permission = "view_analytics"
)

// Sales
const (
	PermViewSales       Permission = "view_sales"
	PermManageSales     Permission = "manage_sales"
	PermViewCustomers   Permission = "view_customers"
	PermManageCustomers Permission = "manage_customers"
)

// Finance
const (
	PermViewFinance   Permission = "view_finance"
	PermManageFinance Permission = "manage_finance"
	PermViewBudgets   Permission = "view_budgets"
	PermManageBudgets Permission = "manage_budgets"
)

// HR
const (
	PermViewHR          Permission = "view_hr"
	PermManageHR        Permission = "manage_hr"
	PermViewEmployees   Permission = "view_employees"
	PermManageEmployees Permission = "manage_employees"
)

// Products
const (
	PermViewProducts   Permission = "view_products"
	PermManageProducts Permission = "manage_products"
)

// Risk
const (
	PermViewRisk   Permission = "view_risk"
	PermManageRisk Permission = "manage_risk"
)

// Reports
const (
	PermViewReports   Permission = "view_reports"
	PermCreateReports Permission = "create_reports"
	PermManageReports Permission = "manage_reports"
)

// AI
const (
	PermUseAIChat       Permission = "use_ai_chat"
	PermViewAIAnalytics Permission = "view_ai_analytics"
)

// System
const (
	PermManageSystem Permission = "manage_system"
	PermViewLogs     Permission = "view_logs"
)

var rolePermissions = map[Role]map[Permission]struct{}{
	RoleAdmin: permSet(
		PermCreateUser, PermReadUser, PermUpdateUser, PermDeleteUser,
		PermViewDashboard, PermViewAnalytics,
		PermViewSales, PermManageSales, PermViewCustomers, PermManageCustomers,
		PermViewFinance, PermManageFinance, PermViewBudgets, PermManageBudgets,
		PermViewHR, PermManageHR, PermViewEmployees, PermManageEmployees,
		PermViewProducts, PermManageProducts,
		PermViewRisk, PermManageRisk,
		PermViewReports, PermCreateReports, PermManageReports,
		PermUseAIChat, PermViewAIAnalytics,
		PermManageSystem, PermViewLogs,
	),
	RoleManager: permSet(
		PermReadUser, PermUpdateUser,
		PermViewDashboard, PermViewAnalytics,
		PermViewSales, PermManageSales, PermViewCustomers, PermManageCustomers,
		PermViewFinance, PermManageFinance, PermViewBudgets, PermManageBudgets,
		PermViewHR, PermManageHR, PermViewEmployees, PermManageEmployees,
		PermViewProducts, PermManageProducts,
		PermViewRisk, PermManageRisk,
		PermViewReports, PermCreateReports, PermManageReports,
		PermUseAIChat, PermViewAIAnalytics,
	),
	RoleUser: permSet(
		PermReadUser,
		PermViewDashboard, PermViewAnalytics,
		PermViewSales, PermViewCustomers,
		PermViewFinance, PermViewBudgets,
		PermViewHR, PermViewEmployees,
		PermViewProducts,
		PermViewRisk,
		PermViewReports, PermCreateReports,
		PermUseAIChat,
	),
	RoleViewer: permSet(
		PermViewDashboard,
		PermViewSales, PermViewCustomers,
		PermViewFinance, PermViewBudgets,
		PermViewHR, PermViewEmployees,
		PermViewProducts,
		PermViewRisk,
		PermViewReports,
		PermUseAIChat,
	),
}

// resourceActions maps resource/action pairs to the permission required.
var resourceActions = map[string]map[string]Permission{
	"users": {
		"create": PermCreateUser,
		"read":   PermReadUser,
		"update": PermUpdateUser,
		"delete": PermDeleteUser,
	},
	"dashboard": {
		"view": PermViewDashboard,
	},
	"sales": {
		"view":   PermViewSales,
		"manage": PermManageSales,
	},
	"finance": {
		"view":   PermViewFinance,
		"manage": PermManageFinance,
	},
	"hr": {
		"view":   PermViewHR,
		"manage": PermManageHR,
	},
	"products": {
		"view":   PermViewProducts,
		"manage": PermManageProducts,
	},
	"risk": {
		"view":   PermViewRisk,
		"manage": PermManageRisk,
	},
	"reports": {
		"view":   PermViewReports,
		"create": PermCreateReports,
		"manage": PermManageReports,
	},
	"ai": {
		"chat":      PermUseAIChat,
		"analytics": PermViewAIAnalytics,
	},
}

func permSet(perms ...Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}
