package app

import (
	"context"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"

	"github.com/ecomcore/storefront/config"
	"github.com/ecomcore/storefront/internal/auth"
	"github.com/ecomcore/storefront/internal/blog"
	"github.com/ecomcore/storefront/internal/bulk"
	"github.com/ecomcore/storefront/internal/catalog"
	"github.com/ecomcore/storefront/internal/domain"
	"github.com/ecomcore/storefront/internal/faq"
	"github.com/ecomcore/storefront/internal/mailer"
	"github.com/ecomcore/storefront/internal/sequence"
	"github.com/ecomcore/storefront/internal/shop"
)

// Application is the composition root: it owns the database handle, the
// event bus, the cron scheduler and every service built on top of them.
type Application struct {
	appConfig *config.AppConfig
	gormDB    *gorm.DB
	sched     *cron.Cron
	bus       EventBus.Bus

	allocator  *sequence.Allocator
	catalogSvc *catalog.Service
	shopSvc    *shop.Service
	authSvc    *auth.Service
	blogSvc    *blog.Service
	bulkSvc    *bulk.Service
	faqSvc     *faq.Service
}

var (
	_ DBProvider        = (*Application)(nil)
	_ ConfigProvider    = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ BusProvider       = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig { return a.appConfig }
func (a *Application) DB() *gorm.DB              { return a.gormDB }
func (a *Application) Scheduler() *cron.Cron     { return a.sched }
func (a *Application) Bus() EventBus.Bus         { return a.bus }

func (a *Application) Catalog() *catalog.Service { return a.catalogSvc }
func (a *Application) Shop() *shop.Service       { return a.shopSvc }
func (a *Application) Auth() *auth.Service       { return a.authSvc }
func (a *Application) Blog() *blog.Service       { return a.blogSvc }
func (a *Application) Bulk() *bulk.Service       { return a.bulkSvc }
func (a *Application) Faq() *faq.Service         { return a.faqSvc }

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
}

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger(cfg)

	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	a.gormDB = getDatabase(cfg.Database, cfg.System.Workdir)
	zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)

	if err := a.MigrateDB(false); err != nil {
		zap.S().Errorf("database migration failed: %v", err)
	}

	a.bus = EventBus.New()
	a.allocator = sequence.NewAllocator(a.gormDB)
	a.catalogSvc = catalog.NewService(a.gormDB, a.allocator)
	a.shopSvc = shop.NewService(a.gormDB, a.allocator, a.bus)
	a.authSvc = auth.NewService(a.gormDB, a.allocator, a.bus,
		cfg.Web.Secret, time.Duration(cfg.Web.JwtExpire)*time.Hour)
	a.blogSvc = blog.NewService(a.gormDB, a.allocator)
	a.bulkSvc = bulk.NewService(a.gormDB, a.catalogSvc)
	a.faqSvc = faq.NewService(a.gormDB, a.allocator)

	if err := mailer.New(cfg.Smtp).Subscribe(a.bus); err != nil {
		zap.S().Errorf("mailer subscription failed: %v", err)
	}

	if err := a.authSvc.SeedDefaults(context.Background(),
		cfg.Web.AdminEmail, cfg.Web.AdminPwd); err != nil {
		zap.S().Errorf("default seed failed: %v", err)
	}

	a.initJob()
}

func (a *Application) initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}
		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}
	zap.ReplaceGlobals(logger)
}

func (a *Application) MigrateDB(track bool) error {
	if track {
		return a.gormDB.Debug().Migrator().AutoMigrate(domain.Tables...)
	}
	return a.gormDB.Migrator().AutoMigrate(domain.Tables...)
}

func (a *Application) DropAll() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
}

func (a *Application) InitDb() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
	if err := a.gormDB.Migrator().AutoMigrate(domain.Tables...); err != nil {
		zap.S().Error(err)
	}
}

// Release releases application resources.
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	_ = zap.L().Sync()
}
