package main

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"

	"sklad/internal/config"
	"sklad/internal/handler"
	"sklad/internal/infra/cache"
	"sklad/internal/infra/db"
	infraRepo "sklad/internal/infra/repository"
	"sklad/internal/server"
	"sklad/internal/usecase"
)

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID int64, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub": fmt.Sprintf("%d", userID),
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	//.envは無くてもよい
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		panic(err)
	}
	if err := db.Migrate(gormDB); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	itemRepo := infraRepo.NewItemGormRepository(gormDB)
	stockRepo := infraRepo.NewStockGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	workshopRepo := infraRepo.NewWorkshopGormRepository(gormDB)
	assignmentRepo := infraRepo.NewAssignmentGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//JWT issuer
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 24 * time.Hour,
	}

	//公開カタログのキャッシュ（REDIS_ADDRが空なら素通し）
	catalogCache := cache.NewCatalogCacheFromEnv()

	//Usecase生成
	scopes := usecase.NewScopeResolver(assignmentRepo)
	authUC := usecase.NewAuthUsecase(userRepo, workshopRepo, scopes, issuer)
	itemUC := usecase.NewItemUsecase(itemRepo, catalogCache)
	stockUC := usecase.NewStockUsecase(itemRepo, stockRepo, txManager)
	supplyUC := usecase.NewSupplyUsecase(txManager, userRepo)
	orderUC := usecase.NewOrderUsecase(txManager)

	//Handler生成
	handlers := server.Handlers{
		Auth:   handler.NewAuthHandler(authUC),
		Public: handler.NewPublicHandler(itemUC),
		Item:   handler.NewItemHandler(itemUC, scopes),
		Size:   handler.NewSizeHandler(stockUC, scopes),
		Supply: handler.NewSupplyHandler(supplyUC, scopes),
		Order:  handler.NewOrderHandler(orderUC, scopes),
	}

	//Server起動
	e := server.New(cfg, handlers)
	if err := server.Start(e, ":"+cfg.Port); err != nil {
		panic(err)
	}
}
