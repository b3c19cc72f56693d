package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sierra/controllers"
	"sierra/core"
	"sierra/internal/accounts"
	"sierra/internal/esg"
	"sierra/internal/memstore"
	"sierra/internal/questionnaire"
	"sierra/internal/tickers"
	"sierra/models"
)

// Stores are the persistence dependencies of the HTTP engine.
type Stores struct {
	Records      esg.RecordStore
	Users        accounts.UserStore
	SavedTickers accounts.SavedTickerStore
	Answers      questionnaire.AnswerStore
	// Ping reports whether the backing store is reachable. May be nil.
	Ping func() error
}

func StoresFromDB(db *gorm.DB) Stores {
	return Stores{
		Records:      models.NewESGRecordStore(db),
		Users:        models.NewUserStore(db),
		SavedTickers: models.NewSavedTickerStore(db),
		Answers:      models.NewQuestionnaireAnswerStore(db),
		Ping:         func() error { return core.Ping(db) },
	}
}

func StoresFromMemory(store *memstore.Store) Stores {
	return Stores{
		Records:      store,
		Users:        store,
		SavedTickers: store,
		Answers:      store,
	}
}

// OpenStores connects to the store selected by STORE_DRIVER. The postgres
// schema is migrated before it is returned.
func OpenStores(cfg *core.Config, logger *zap.SugaredLogger) (Stores, error) {
	switch cfg.StoreDriver {
	case core.StoreMemory:
		logger.Warn("Using the in-memory store, data will not survive a restart")
		return StoresFromMemory(memstore.New()), nil
	case core.StorePostgres:
		db, err := core.InitDB(cfg)
		if err != nil {
			return Stores{}, fmt.Errorf("connecting to database: %w", err)
		}
		if err := core.Migrate(db); err != nil {
			return Stores{}, fmt.Errorf("migrating database: %w", err)
		}
		return StoresFromDB(db), nil
	}

	return Stores{}, core.ErrUnknownStore
}

// NewEngine assembles the gin engine serving every route, at the root and
// under /api. Registration, login, saved tickers and the questionnaire are
// also served under /auth.
func NewEngine(cfg *core.Config, logger *zap.SugaredLogger, stores Stores) *gin.Engine {
	engine := gin.New()
	err := engine.SetTrustedProxies(nil)
	if err != nil {
		panic(err)
	}

	engine.Use(
		gin.Recovery(),
		controllers.RequestLogger(logger.With("component", "http")),
		controllers.CORS(cfg.CORSOrigin),
		controllers.ExposeErrors(!cfg.IsProduction()),
	)

	esgService := esg.NewService(
		stores.Records,
		tickers.Default(),
		cfg.ScanPageSize,
		logger.With("service", "esg"),
	)
	accountService := accounts.NewService(
		stores.Users,
		stores.SavedTickers,
		accounts.NewTokens(cfg.JWTSecret, cfg.TokenExpiry),
		accounts.Passwords{Cost: accounts.DefaultPasswordCost},
		logger.With("service", "accounts"),
	)
	questionnaireService := questionnaire.NewService(
		accountService,
		stores.Answers,
		esgService,
		tickers.DefaultSectors(),
		logger.With("service", "questionnaire"),
	)

	router := controllers.Router{
		HealthController: &controllers.HealthController{
			Ping:   stores.Ping,
			Logger: logger.With("controller", "health"),
		},
		ESGController: &controllers.ESGController{
			Service: esgService,
			Logger:  logger.With("controller", "esg"),
		},
		SearchController: &controllers.SearchController{
			Service: esgService,
			Logger:  logger.With("controller", "search"),
		},
		AuthController: &controllers.AuthController{
			Accounts: accountService,
			Logger:   logger.With("controller", "auth"),
		},
		TickersController: &controllers.TickersController{
			Accounts: accountService,
			Logger:   logger.With("controller", "tickers"),
		},
		QuestionnaireController: &controllers.QuestionnaireController{
			Service: questionnaireService,
			Logger:  logger.With("controller", "questionnaire"),
		},
	}

	router.RegisterRoutes(engine)
	router.RegisterRoutes(engine.Group("/api"))
	router.RegisterAuthRoutes(engine.Group("/auth"))

	return engine
}
