package main

import (
	"context"
	"net/http"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/dwellwise/leasing-service/internal/app"
	"github.com/dwellwise/leasing-service/internal/config"
	"github.com/dwellwise/leasing-service/internal/controllers"
	"github.com/dwellwise/leasing-service/internal/events"
	"github.com/dwellwise/leasing-service/internal/middleware"
	"github.com/dwellwise/leasing-service/internal/oracles"
	"github.com/dwellwise/leasing-service/internal/repositories"
	"github.com/dwellwise/leasing-service/internal/routes"
	"github.com/dwellwise/leasing-service/internal/services"
	"github.com/dwellwise/leasing-service/internal/utils"
)

func main() {
	utils.InitLogger("leasing-service")
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize leasing-service:", err)
	}
	defer application.Close()

	var (
		propertyRepo repositories.PropertyRepository
		unitRepo     repositories.UnitRepository
		bedroomRepo  repositories.BedroomRepository
		tenantRepo   repositories.TenantRepository
		leaseRepo    repositories.LeaseRepository
		policyRepo   repositories.InsurancePolicyRepository
	)
	if cfg.UseMemoryStores {
		propertyRepo = repositories.NewMemoryPropertyRepository()
		unitRepo = repositories.NewMemoryUnitRepository()
		bedroomRepo = repositories.NewMemoryBedroomRepository()
		tenantRepo = repositories.NewMemoryTenantRepository()
		leaseRepo = repositories.NewMemoryLeaseRepository()
		policyRepo = repositories.NewMemoryInsurancePolicyRepository()
	} else {
		propertyRepo = repositories.NewPropertyRepository(application.DB)
		unitRepo = repositories.NewUnitRepository(application.DB)
		bedroomRepo = repositories.NewBedroomRepository(application.DB)
		tenantRepo = repositories.NewTenantRepository(application.DB)
		leaseRepo = repositories.NewLeaseRepository(application.DB)
		policyRepo = repositories.NewInsurancePolicyRepository(application.DB)
	}

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	} else {
		utils.Logger.Warn("KAFKA_BROKERS not set; events stay in memory")
		publisher = events.NewMemoryPublisher()
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			utils.Logger.WithError(err).Warn("Event publisher close failed")
		}
	}()

	invoiceLedger := oracles.NewHTTPInvoiceLedger(cfg.InvoiceServiceURL, cfg.OracleTimeout)
	maintenanceTracker := oracles.NewHTTPMaintenanceTracker(cfg.MaintenanceServiceURL, cfg.OracleTimeout)

	locks := services.NewTargetLocks()

	inventoryService := services.NewInventoryService(propertyRepo, unitRepo, bedroomRepo, leaseRepo)
	leaseService := services.NewLeaseService(propertyRepo, unitRepo, bedroomRepo, tenantRepo, leaseRepo, publisher, locks)
	modeSwitchService := services.NewModeSwitchService(unitRepo, bedroomRepo, leaseRepo, invoiceLedger, maintenanceTracker, publisher, locks)
	tenantService := services.NewTenantService(tenantRepo, leaseRepo)
	insuranceService := services.NewInsuranceService(policyRepo, publisher)

	if cfg.SeedDemoData {
		if err := app.SeedDemoData(context.Background(), inventoryService, tenantService); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to seed demo data")
		}
	}

	healthController := controllers.NewHealthController(application)
	inventoryController := controllers.NewInventoryController(inventoryService)
	modeSwitchController := controllers.NewModeSwitchController(modeSwitchService)
	leaseController := controllers.NewLeaseController(leaseService)
	tenantController := controllers.NewTenantController(tenantService)
	insuranceController := controllers.NewInsuranceController(insuranceService)

	router := mux.NewRouter()

	// Public
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)

	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))

	secured.HandleFunc(routes.Properties, inventoryController.CreatePropertyHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Properties, inventoryController.ListPropertiesHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Units, inventoryController.CreateUnitHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.UnitsEligible, inventoryController.ListEligibleUnitsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.Unit, inventoryController.GetUnitHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.UnitBedroomsEligible, inventoryController.ListEligibleBedroomsHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.UnitSwitchMode, modeSwitchController.SwitchModeHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.UnitCanSwitchMode, modeSwitchController.CanSwitchModeHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.UnitDraftLease, leaseController.GetUnitDraftHandler).Methods(http.MethodGet)

	secured.HandleFunc(routes.Leases, leaseController.CreateLeaseHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Leases, leaseController.ListOpenLeasesHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.LeaseDraft, leaseController.CreateDraftHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Lease, leaseController.GetLeaseHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.LeaseActivate, leaseController.ActivateDraftHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.LeaseCancel, leaseController.CancelLeaseHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.LeaseEnd, leaseController.EndLeaseHandler).Methods(http.MethodPost)

	secured.HandleFunc(routes.Tenants, tenantController.CreateTenantHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.TenantResidents, tenantController.AddResidentHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Tenant, tenantController.GetTenantHandler).Methods(http.MethodGet)

	secured.HandleFunc(routes.InsurancePolicies, insuranceController.SubmitPolicyHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.InsurancePolicy, insuranceController.GetPolicyHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.InsurancePolicyApprove, insuranceController.ApprovePolicyHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.InsurancePolicyReject, insuranceController.RejectPolicyHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.InsuranceTenantPolicies, insuranceController.ListTenantPoliciesHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.InsuranceStats, insuranceController.StatsHandler).Methods(http.MethodGet)

	c := cron.New()
	_, sweepErr := c.AddFunc(cfg.ComplianceSweepSpec, func() {
		if e := insuranceService.RecomputeAll(context.Background(), time.Now().UTC()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled compliance sweep failed")
		}
	})
	if sweepErr != nil {
		utils.Logger.WithError(sweepErr).Fatal("Failed to schedule compliance sweep cron")
	}
	c.Start()
	defer c.Stop()

	// Catch up immediately so a service that was down over a status
	// boundary does not wait a day.
	if err := insuranceService.RecomputeAll(context.Background(), time.Now().UTC()); err != nil {
		utils.Logger.WithError(err).Error("Startup compliance sweep failed")
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("leasing-service failed to start:", err)
	}
}
