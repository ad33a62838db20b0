package main

import (
	"market/internal/config"
	"market/internal/domain/model"
	"market/internal/handler"
	"market/internal/infra/db"
	infraRepo "market/internal/infra/repository"
	"market/internal/server"
	"market/internal/usecase"
	"market/internal/validator"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

func main() {
	//.envはローカル開発用。本番は環境変数で渡す
	if err := godotenv.Load(); err != nil {
		log.Infof("no .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.Connect()
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.Category{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.Report{},
		&model.AuditLog{},
		&model.Review{},
		&model.Favorite{},
		&model.Conversation{},
		&model.Message{},
		&model.InventoryAdjustment{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	profileRepo := infraRepo.NewProfileGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	reportRepo := infraRepo.NewReportGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	favoriteRepo := infraRepo.NewFavoriteGormRepository(gormDB)
	chatRepo := infraRepo.NewChatGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//監査は失敗しても本処理を止めない
	audit := usecase.NewAuditRecorder(auditRepo)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo, profileRepo, validator.NewAuthValidator(userRepo), audit)
	userUC := usecase.NewUserUsecase(userRepo, profileRepo)
	productUC := usecase.NewProductUsecase(productRepo, inventoryRepo, audit)
	orderUC := usecase.NewOrderUsecase(txManager, audit)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, audit)
	moderationUC := usecase.NewModerationUsecase(txManager, reportRepo, audit)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, productRepo)
	favoriteUC := usecase.NewFavoriteUsecase(favoriteRepo, productRepo)
	chatUC := usecase.NewChatUsecase(chatRepo, profileRepo)
	auditLogUC := usecase.NewAuditLogUsecase(auditRepo)

	//Handler生成とルート登録
	e := server.New(cfg)
	server.RegisterRoutes(e, cfg, server.Handlers{
		Auth:          handler.NewAuthHandler(authUC),
		Product:       handler.NewProductHandler(productUC),
		VendorProduct: handler.NewVendorProductHandler(productUC),
		AdminProduct:  handler.NewAdminProductHandler(productUC),
		Order:         handler.NewOrderHandler(orderUC),
		AdminOrder:    handler.NewAdminOrderHandler(adminOrderUC),
		Report:        handler.NewReportHandler(moderationUC),
		User:          handler.NewUserHandler(userUC),
		AdminUser:     handler.NewAdminUserHandler(userUC, moderationUC),
		Category:      handler.NewCategoryHandler(categoryUC),
		Review:        handler.NewReviewHandler(reviewUC),
		Favorite:      handler.NewFavoriteHandler(favoriteUC),
		Chat:          handler.NewChatHandler(chatUC),
		AuditLog:      handler.NewAuditLogHandler(auditLogUC),
	})

	if err := server.Start(e, cfg); err != nil {
		log.Fatalf("server: %v", err)
	}
}
