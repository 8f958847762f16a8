package handlers

import (
	"perfumeria/internal/config"
	"perfumeria/internal/repos"
	"perfumeria/internal/services"
	"perfumeria/internal/storage"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthHandler    *AuthHandler
	CatalogHandler *CatalogHandler
	AdminHandler   *AdminHandler
	APIHandler     *APIHandler
	// MediaHandler is nil unless images are kept on the local disk.
	MediaHandler *MediaHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService, disk storage.Disk) *Deps {
	prodRepo := repos.NewProductRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo)
	perfumeSvc := services.NewPerfumeService(prodRepo, disk)

	d := &Deps{
		AuthHandler:    &AuthHandler{Auth: auth, CookieSecure: cfg.CookieSecure},
		CatalogHandler: &CatalogHandler{Catalog: catalogSvc, WhatsApp: cfg.WhatsAppNumber},
		AdminHandler:   &AdminHandler{Catalog: catalogSvc, Perfumes: perfumeSvc},
		APIHandler:     &APIHandler{Catalog: catalogSvc},
	}
	if local, ok := disk.(*storage.Local); ok {
		d.MediaHandler = &MediaHandler{Disk: local}
	}
	return d
}
