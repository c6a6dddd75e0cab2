package migration

import (
	cartdomain "github.com/druckhaus/storefront/internal/cart/domain"
	catalogdomain "github.com/druckhaus/storefront/internal/catalog/domain"
	"github.com/druckhaus/storefront/internal/config"
	inquirydomain "github.com/druckhaus/storefront/internal/inquiry/domain"
	"github.com/druckhaus/storefront/internal/seed"
	settingsdomain "github.com/druckhaus/storefront/internal/shopsettings/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			if err := conn.AutoMigrate(
				&catalogdomain.Product{},
				&catalogdomain.OptionMatrix{},
				&catalogdomain.AttributeGroup{},
				&catalogdomain.AttributeOption{},
				&catalogdomain.AreaPriceTable{},
				&catalogdomain.AreaPriceTier{},
				&settingsdomain.ShopSettings{},
				&cartdomain.CartLine{},
				&inquirydomain.Inquiry{},
			); err != nil {
				return err
			}
		}

		if err := seed.EnsureShopSettings(conn); err != nil {
			return err
		}
		if cfg.SeedDemoCatalog {
			return seed.EnsureDemoCatalog(conn)
		}
		return nil
	}),
)
