package bootstrap

import (
	"context"
	"log"

	"cv-adapter-be/internal/config"
	"cv-adapter-be/internal/controller"
	"cv-adapter-be/internal/pkg/logger"
	"cv-adapter-be/internal/pkg/mailer"
	"cv-adapter-be/internal/repository/memory"
	"cv-adapter-be/internal/repository/unitofwork"
	"cv-adapter-be/internal/service"
	"cv-adapter-be/pkg/llm/factory"

	pktNats "cv-adapter-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// activityTopic carries generation-activity messages from the generation
// flow to the last-active consumer.
const activityTopic = "generation.activity"

type Container struct {
	// Controllers
	AuthController       controller.IAuthController
	OAuthController      controller.IOAuthController
	UserController       controller.IUserController
	CVController         controller.ICVController
	GenerationController controller.IGenerationController
	UsageController      controller.UsageController
	PaymentController    controller.IPaymentController
	AdminController      controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// LLM Provider
	llmProvider, err := factory.NewLLMProvider(cfg.Ai)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// In-memory cache for latest generation results
	resultCache := memory.NewResultCache()

	// 4. Services
	publisherService := service.NewPublisherService(activityTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, activityTopic, uowFactory)

	identityService := service.NewIdentityService(uowFactory, cfg.Access)
	entitlementService := service.NewEntitlementService(uowFactory, rdb, cfg.Usage)
	usageService := service.NewUsageService(uowFactory, natsPub)

	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	oauthService := service.NewOAuthService(uowFactory, cfg.Auth, cfg.App.BaseURL)
	userService := service.NewUserService(uowFactory)
	cvService := service.NewCVService(uowFactory)

	generationService := service.NewGenerationService(
		uowFactory,
		entitlementService,
		usageService,
		llmProvider,
		resultCache,
		natsPub,
		publisherService,
	)

	paymentService := service.NewPaymentService(
		uowFactory,
		entitlementService,
		natsPub,
		cfg.Midtrans,
		cfg.App.ClientURL,
	)

	adminService := service.NewAdminService(uowFactory, sysLogger)

	// 5. Controllers
	return &Container{
		AuthController:  controller.NewAuthController(authService),
		OAuthController: controller.NewOAuthController(oauthService),
		UserController:  controller.NewUserController(userService),
		CVController:    controller.NewCVController(cvService),
		GenerationController: controller.NewGenerationController(
			identityService,
			generationService,
		),
		UsageController: controller.NewUsageController(
			identityService,
			entitlementService,
			usageService,
			paymentService,
		),
		PaymentController: controller.NewPaymentController(paymentService),
		AdminController: controller.NewAdminController(
			identityService,
			usageService,
			adminService,
		),

		ConsumerService: consumerService,
	}
}
