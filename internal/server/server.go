package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"sharehope/internal/service"
	"sharehope/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

// Services are the use cases the HTTP layer dispatches to.
type Services struct {
	Categories    *service.CategoryService
	Posts         *service.PostService
	Consultations *service.ConsultationService
	Donations     *service.DonationService
	Users         *service.UserService
	Resources     *service.ResourceService
	Newsletter    *service.NewsletterService
	Content       *service.ContentService
}

type Service struct {
	logger logrus.FieldLogger
	config *types.Config
	cookie *securecookie.SecureCookie

	accessSecret []byte

	categories    *service.CategoryService
	posts         *service.PostService
	consultations *service.ConsultationService
	donations     *service.DonationService
	users         *service.UserService
	resources     *service.ResourceService
	newsletter    *service.NewsletterService
	content       *service.ContentService

	server *http.Server
}

func New(config *types.Config, logger logrus.FieldLogger, services Services) (*Service, error) {
	hashKey, err := base64.StdEncoding.DecodeString(config.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cookie hash key: %w", err)
	}

	blockKey, err := base64.StdEncoding.DecodeString(config.CookieBlockKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cookie block key: %w", err)
	}
	if len(blockKey) == 0 {
		blockKey = nil
	}

	mux := flow.New()

	s := &Service{
		logger:       logger,
		config:       config,
		cookie:       securecookie.New(hashKey, blockKey),
		accessSecret: []byte(config.JWTAccessSecret),

		categories:    services.Categories,
		posts:         services.Posts,
		consultations: services.Consultations,
		donations:     services.Donations,
		users:         services.Users,
		resources:     services.Resources,
		newsletter:    services.Newsletter,
		content:       services.Content,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)
	s.server.Handler = s.StripTrailingSlash(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.server.Handler.ServeHTTP(w, r)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/api/categories", s.handleListCategories, http.MethodGet)
	r.HandleFunc("/api/categories/tree", s.handleCategoryTree, http.MethodGet)
	r.HandleFunc("/api/categories/:slug", s.handleGetCategoryBySlug, http.MethodGet)

	r.HandleFunc("/api/posts", s.handleListPublishedPosts, http.MethodGet)
	r.HandleFunc("/api/posts/:id", s.handleGetPublishedPost, http.MethodGet)
	r.HandleFunc("/api/posts/:id/view", s.handleRecordPostView, http.MethodPost)

	r.HandleFunc("/api/resource-categories", s.handleListResourceCategories, http.MethodGet)
	r.HandleFunc("/api/resources", s.handleListPublishedResources, http.MethodGet)
	r.HandleFunc("/api/resources/:id", s.handleGetPublishedResource, http.MethodGet)
	r.HandleFunc("/api/resources/:id/view", s.handleRecordResourceView, http.MethodPost)
	r.HandleFunc("/api/resources/:id/files/:fileID/download", s.handleDownloadResourceFile, http.MethodPost)

	r.HandleFunc("/api/reports", s.handleListActiveReports, http.MethodGet)
	r.HandleFunc("/api/menus", s.handleActiveMenuTree, http.MethodGet)
	r.HandleFunc("/api/banners", s.handleActiveBanners, http.MethodGet)
	r.HandleFunc("/api/organizations", s.handleListActiveOrganizations, http.MethodGet)

	r.HandleFunc("/api/consultations", s.handleSubmitConsultation, http.MethodPost)
	r.HandleFunc("/api/consultations/:id", s.handleGetPublicConsultation, http.MethodGet)
	r.HandleFunc("/api/donations", s.handleApplyDonation, http.MethodPost)
	r.HandleFunc("/api/newsletter", s.handleSubscribe, http.MethodPost)
	r.HandleFunc("/api/newsletter/:token", s.handleUnsubscribe, http.MethodDelete)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAdmin)

		r.HandleFunc("/api/admin/me/password", s.handleChangeOwnPassword, http.MethodPut)

		r.HandleFunc("/api/admin/categories", s.handleListCategories, http.MethodGet)
		r.HandleFunc("/api/admin/categories", s.handleCreateCategory, http.MethodPost)
		r.HandleFunc("/api/admin/categories/:id", s.handleGetCategory, http.MethodGet)
		r.HandleFunc("/api/admin/categories/:id", s.handleUpdateCategory, http.MethodPatch)
		r.HandleFunc("/api/admin/categories/:id", s.handleDeleteCategory, http.MethodDelete)

		r.HandleFunc("/api/admin/posts", s.handleListPosts, http.MethodGet)
		r.HandleFunc("/api/admin/posts", s.handleCreatePost, http.MethodPost)
		r.HandleFunc("/api/admin/posts/:id", s.handleGetPost, http.MethodGet)
		r.HandleFunc("/api/admin/posts/:id", s.handleUpdatePost, http.MethodPatch)
		r.HandleFunc("/api/admin/posts/:id", s.handleDeletePost, http.MethodDelete)

		r.HandleFunc("/api/admin/consultations", s.handleListConsultations, http.MethodGet)
		r.HandleFunc("/api/admin/consultations/:id", s.handleGetConsultation, http.MethodGet)
		r.HandleFunc("/api/admin/consultations/:id", s.handlePatchConsultation, http.MethodPatch)
		r.HandleFunc("/api/admin/consultations/:id", s.handleDeleteConsultation, http.MethodDelete)
		r.HandleFunc("/api/admin/consultations/:id/responses", s.handleAddConsultationResponse, http.MethodPost)
		r.HandleFunc("/api/admin/consultations/:id/responses/:responseID", s.handleDeleteConsultationResponse, http.MethodDelete)
		r.HandleFunc("/api/admin/consultations/:id/followups", s.handleScheduleFollowup, http.MethodPost)
		r.HandleFunc("/api/admin/consultations/:id/followups/:followupID", s.handleUpdateFollowup, http.MethodPatch)
		r.HandleFunc("/api/admin/consultations/:id/followups/:followupID", s.handleDeleteFollowup, http.MethodDelete)

		r.HandleFunc("/api/admin/sponsors", s.handleListSponsors, http.MethodGet)
		r.HandleFunc("/api/admin/sponsors/:id", s.handleGetSponsor, http.MethodGet)
		r.HandleFunc("/api/admin/sponsors/:id", s.handleUpdateSponsor, http.MethodPatch)
		r.HandleFunc("/api/admin/sponsors/:id", s.handleDeleteSponsor, http.MethodDelete)
		r.HandleFunc("/api/admin/donations", s.handleListDonations, http.MethodGet)
		r.HandleFunc("/api/admin/donations/:id", s.handleGetDonation, http.MethodGet)
		r.HandleFunc("/api/admin/donations/:id/status", s.handleUpdateDonationStatus, http.MethodPut)
		r.HandleFunc("/api/admin/donations/:id", s.handleDeleteDonation, http.MethodDelete)

		r.HandleFunc("/api/admin/users", s.handleListUsers, http.MethodGet)
		r.HandleFunc("/api/admin/users", s.handleCreateUser, http.MethodPost)
		r.HandleFunc("/api/admin/users/:id", s.handleGetUser, http.MethodGet)
		r.HandleFunc("/api/admin/users/:id", s.handleUpdateUser, http.MethodPatch)
		r.HandleFunc("/api/admin/users/:id", s.handleDeleteUser, http.MethodDelete)
		r.HandleFunc("/api/admin/users/:id/profile", s.handleUpdateUserProfile, http.MethodPut)
		r.HandleFunc("/api/admin/users/:id/status", s.handleChangeUserStatus, http.MethodPut)
		r.HandleFunc("/api/admin/users/:id/password", s.handleResetUserPassword, http.MethodPut)

		r.HandleFunc("/api/admin/resource-categories", s.handleListAllResourceCategories, http.MethodGet)
		r.HandleFunc("/api/admin/resource-categories", s.handleCreateResourceCategory, http.MethodPost)
		r.HandleFunc("/api/admin/resource-categories/:id", s.handleGetResourceCategory, http.MethodGet)
		r.HandleFunc("/api/admin/resource-categories/:id", s.handleUpdateResourceCategory, http.MethodPatch)
		r.HandleFunc("/api/admin/resource-categories/:id", s.handleDeleteResourceCategory, http.MethodDelete)
		r.HandleFunc("/api/admin/resources", s.handleListResources, http.MethodGet)
		r.HandleFunc("/api/admin/resources", s.handleCreateResource, http.MethodPost)
		r.HandleFunc("/api/admin/resources/:id", s.handleGetResource, http.MethodGet)
		r.HandleFunc("/api/admin/resources/:id", s.handleUpdateResource, http.MethodPatch)
		r.HandleFunc("/api/admin/resources/:id", s.handleDeleteResource, http.MethodDelete)
		r.HandleFunc("/api/admin/resources/:id/files", s.handleAddResourceFile, http.MethodPost)
		r.HandleFunc("/api/admin/resources/:id/files/:fileID", s.handleDeleteResourceFile, http.MethodDelete)

		r.HandleFunc("/api/admin/newsletter", s.handleListSubscribers, http.MethodGet)
		r.HandleFunc("/api/admin/newsletter/:id", s.handleDeleteSubscriber, http.MethodDelete)

		r.HandleFunc("/api/admin/reports", s.handleListReports, http.MethodGet)
		r.HandleFunc("/api/admin/reports", s.handleCreateReport, http.MethodPost)
		r.HandleFunc("/api/admin/reports/:id", s.handleGetReport, http.MethodGet)
		r.HandleFunc("/api/admin/reports/:id", s.handleUpdateReport, http.MethodPatch)
		r.HandleFunc("/api/admin/reports/:id", s.handleDeleteReport, http.MethodDelete)

		r.HandleFunc("/api/admin/menus", s.handleMenuTree, http.MethodGet)
		r.HandleFunc("/api/admin/menus", s.handleCreateMenu, http.MethodPost)
		r.HandleFunc("/api/admin/menus/:id", s.handleGetMenu, http.MethodGet)
		r.HandleFunc("/api/admin/menus/:id", s.handleUpdateMenu, http.MethodPatch)
		r.HandleFunc("/api/admin/menus/:id", s.handleDeleteMenu, http.MethodDelete)

		r.HandleFunc("/api/admin/banners", s.handleListBanners, http.MethodGet)
		r.HandleFunc("/api/admin/banners", s.handleCreateBanner, http.MethodPost)
		r.HandleFunc("/api/admin/banners/:id", s.handleGetBanner, http.MethodGet)
		r.HandleFunc("/api/admin/banners/:id", s.handleUpdateBanner, http.MethodPatch)
		r.HandleFunc("/api/admin/banners/:id", s.handleDeleteBanner, http.MethodDelete)

		r.HandleFunc("/api/admin/organizations", s.handleListOrganizations, http.MethodGet)
		r.HandleFunc("/api/admin/organizations", s.handleCreateOrganization, http.MethodPost)
		r.HandleFunc("/api/admin/organizations/:id", s.handleGetOrganization, http.MethodGet)
		r.HandleFunc("/api/admin/organizations/:id", s.handleUpdateOrganization, http.MethodPatch)
		r.HandleFunc("/api/admin/organizations/:id", s.handleDeleteOrganization, http.MethodDelete)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
