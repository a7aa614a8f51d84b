package container

import (
	"database/sql"

	auditLogRepo "procurement/internal/auditlog"
	"procurement/internal/config"
	"procurement/internal/dashboard"
	"procurement/internal/departments"
	"procurement/internal/inventory/category"
	"procurement/internal/inventory/items"
	"procurement/internal/lowstock"
	"procurement/internal/notifications"
	"procurement/internal/reports"
	"procurement/internal/repository"
	"procurement/internal/requisitions"
	"procurement/internal/servicerequests"
	"procurement/internal/transactions"
	"procurement/internal/users"
	"procurement/pkg/auditlog"
	"procurement/pkg/security"

	"go.uber.org/zap"
)

type Container struct {
	Repository            *repository.Repository
	AuditLog              *auditlog.Auditlog
	Mailer                *notifications.Mailer
	LowStockChecker       *lowstock.Checker
	LoginHandler          *security.LoginHandler
	UserHandler           *users.UsersHandler
	DepartmentHandler     *departments.DepartmentHandler
	CategoryHandler       *category.CategoryHandler
	ItemHandler           *items.ItemHandler
	RequisitionHandler    *requisitions.RequisitionHandler
	ServiceRequestHandler *servicerequests.Handler
	TransactionHandler    *transactions.TransactionHandler
	ReportHandler         *reports.ReportHandler
	DashboardHandler      *dashboard.DashboardHandler
	AuditLogHandler       *auditLogRepo.Handler
}

func NewAppContainer(db *sql.DB, cfg config.Config, logger *zap.Logger) *Container {
	repo := repository.NewRepository(db)

	auditRepo := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditRepo, logger)
	mailer := notifications.NewMailer(cfg, logger)

	userRepo := users.NewRepository(repo)
	departmentRepo := departments.NewRepository(repo)
	categoryRepo := category.NewRepository(repo)
	itemRepo := items.NewRepository(repo)
	requisitionRepo := requisitions.NewRepository(repo)
	serviceRequestRepo := servicerequests.NewServiceRequestRepository(repo)
	transactionRepo := transactions.NewTransactionRepository(repo)
	dashboardRepo := dashboard.NewDashboardRepository(repo)

	requisitionService := requisitions.NewService(
		repo, requisitionRepo, auditLog, mailer, logger,
		cfg.Fulfillment.LockWait, cfg.Fulfillment.TxTimeout,
	)
	serviceRequestService := servicerequests.NewService(serviceRequestRepo, auditLog, mailer)
	transactionService := transactions.NewService(repo, transactionRepo, auditLog)
	reportService := reports.NewService(itemRepo, transactionRepo)

	return &Container{
		Repository:            repo,
		AuditLog:              auditLog,
		Mailer:                mailer,
		LowStockChecker:       lowstock.NewChecker(itemRepo, mailer, logger),
		LoginHandler:          security.NewLoginHandler(repo, auditLog),
		UserHandler:           users.NewHandler(userRepo, auditLog),
		DepartmentHandler:     departments.NewHandler(departmentRepo, auditLog),
		CategoryHandler:       category.NewHandler(categoryRepo),
		ItemHandler:           items.NewItemHandler(itemRepo, auditLog),
		RequisitionHandler:    requisitions.NewHandler(requisitionService, userRepo),
		ServiceRequestHandler: servicerequests.NewHandler(serviceRequestService, serviceRequestRepo, userRepo),
		TransactionHandler:    transactions.NewHandler(transactionService),
		ReportHandler:         reports.NewHandler(reportService),
		DashboardHandler:      dashboard.NewHandler(dashboardRepo, transactionRepo, userRepo),
		AuditLogHandler:       auditLogRepo.NewHandler(auditRepo),
	}
}
