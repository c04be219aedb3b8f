package api

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/confera/conference-api/docs"
	v1 "github.com/confera/conference-api/internal/api/handler/v1"
	"github.com/confera/conference-api/internal/api/middleware"
	"github.com/confera/conference-api/internal/config"
	"github.com/confera/conference-api/internal/repository"
	"github.com/confera/conference-api/internal/repository/dao"
	"github.com/confera/conference-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authSvc := s.initAuthService(db)
	authHandler := v1.NewAuthHandler(s.Config.API, authSvc)
	conferenceHandler := s.initConferenceHandler(db, authSvc)
	registrationHandler := s.initRegistrationHandler(db, authSvc)
	attendeeHandler := s.initAttendeeHandler(db, authSvc)
	recommendationHandler := s.initRecommendationHandler(db, authSvc)
	adminHandler := s.initAdminHandler(db)
	s.MountHandlers(authSvc, authHandler, conferenceHandler, registrationHandler,
		attendeeHandler, recommendationHandler, adminHandler)

	return s
}

func (s *Server) initAuthService(db *gorm.DB) *service.AuthService {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)

	return service.NewAuthService(repo)
}

func (s *Server) initConferenceHandler(db *gorm.DB, userSvc *service.AuthService) *v1.ConferenceHandler {
	repo := repository.NewConferenceRepository(dao.NewConferenceDAO(db))
	registrationRepo := repository.NewRegistrationRepository(dao.NewRegistrationDAO(db))
	attendeeRepo := repository.NewAttendeeRepository(dao.NewAttendeeDAO(db))
	svc := service.NewConferenceService(repo, registrationRepo, attendeeRepo)

	return v1.NewConferenceHandler(svc, userSvc)
}

func (s *Server) initRegistrationHandler(db *gorm.DB, userSvc *service.AuthService) *v1.RegistrationHandler {
	registrationRepo := repository.NewRegistrationRepository(dao.NewRegistrationDAO(db))
	conferenceRepo := repository.NewConferenceRepository(dao.NewConferenceDAO(db))
	attendeeRepo := repository.NewAttendeeRepository(dao.NewAttendeeDAO(db))
	paymentRepo := repository.NewPaymentRepository(dao.NewPaymentDAO(db))
	notifier := service.NewNotificationService(repository.NewEmailLogRepository(dao.NewEmailLogDAO(db)))

	svc := service.NewRegistrationService(registrationRepo, conferenceRepo, attendeeRepo,
		notifier, s.Config.API.JoinLinkBaseURL)
	paymentSvc := service.NewPaymentService(paymentRepo, registrationRepo, attendeeRepo,
		notifier, service.NewLockedSource(time.Now().UnixNano()))

	return v1.NewRegistrationHandler(svc, paymentSvc, userSvc)
}

func (s *Server) initAttendeeHandler(db *gorm.DB, userSvc *service.AuthService) *v1.AttendeeHandler {
	attendeeRepo := repository.NewAttendeeRepository(dao.NewAttendeeDAO(db))
	conferenceRepo := repository.NewConferenceRepository(dao.NewConferenceDAO(db))
	registrationRepo := repository.NewRegistrationRepository(dao.NewRegistrationDAO(db))
	notifier := service.NewNotificationService(repository.NewEmailLogRepository(dao.NewEmailLogDAO(db)))
	svc := service.NewAttendeeService(attendeeRepo, conferenceRepo, registrationRepo, notifier)

	return v1.NewAttendeeHandler(svc, userSvc)
}

func (s *Server) initRecommendationHandler(db *gorm.DB, userSvc *service.AuthService) *v1.RecommendationHandler {
	conferenceRepo := repository.NewConferenceRepository(dao.NewConferenceDAO(db))
	registrationRepo := repository.NewRegistrationRepository(dao.NewRegistrationDAO(db))
	attendeeRepo := repository.NewAttendeeRepository(dao.NewAttendeeDAO(db))
	svc := service.NewRecommendationService(conferenceRepo, registrationRepo, attendeeRepo)

	return v1.NewRecommendationHandler(svc, userSvc)
}

func (s *Server) initAdminHandler(db *gorm.DB) *v1.AdminHandler {
	conferenceRepo := repository.NewConferenceRepository(dao.NewConferenceDAO(db))
	registrationRepo := repository.NewRegistrationRepository(dao.NewRegistrationDAO(db))
	paymentRepo := repository.NewPaymentRepository(dao.NewPaymentDAO(db))
	emailLogRepo := repository.NewEmailLogRepository(dao.NewEmailLogDAO(db))
	attendeeRepo := repository.NewAttendeeRepository(dao.NewAttendeeDAO(db))

	svc := service.NewAdminService(conferenceRepo, registrationRepo, paymentRepo, emailLogRepo)
	conferenceSvc := service.NewConferenceService(conferenceRepo, registrationRepo, attendeeRepo)

	return v1.NewAdminHandler(svc, conferenceSvc)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	userSvc *service.AuthService,
	authHandler *v1.AuthHandler,
	conferenceHandler *v1.ConferenceHandler,
	registrationHandler *v1.RegistrationHandler,
	attendeeHandler *v1.AttendeeHandler,
	recommendationHandler *v1.RecommendationHandler,
	adminHandler *v1.AdminHandler,
) {
	const basePath = "/api/v1"

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)
	verifyJWT := authenticator.VerifyJWT()

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)

		// Browsing stays public; a bearer token only personalizes the output.
		browse := public.Group("", authenticator.VerifyJWTOptional())
		browse.GET("/conferences", conferenceHandler.HandleListConferences)
		browse.GET("/conferences/:conferenceID/sessions", conferenceHandler.HandleListSessions)
	}

	attendees := s.Router.Group(basePath, verifyJWT)
	{
		attendees.POST("/registrations", registrationHandler.HandleRegister)
		attendees.POST("/registrations/:registrationID/payment", registrationHandler.HandleCharge)
		attendees.GET("/attendees/me/registrations", registrationHandler.HandleListMyRegistrations)
		attendees.GET("/attendees/me/profile", attendeeHandler.HandleProfile)
		attendees.POST("/attendees/me/preferences", attendeeHandler.HandleSavePreference)
		attendees.POST("/attendees/me/otp", attendeeHandler.HandleGenerateOTP)
		attendees.POST("/attendees/me/otp/verify", attendeeHandler.HandleVerifyOTP)
		attendees.GET("/recommendations", recommendationHandler.HandleRecommendations)
	}

	admin := s.Router.Group(basePath+"/admin", verifyJWT, middleware.RequireAdmin(userSvc))
	{
		admin.GET("/dashboard", adminHandler.HandleDashboard)
		admin.GET("/registrations", adminHandler.HandleRecentRegistrations)
		admin.POST("/conferences", adminHandler.HandleCreateConference)
		admin.POST("/conferences/:conferenceID/sessions", adminHandler.HandleCreateSession)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Conference Registration API"
	docs.SwaggerInfo.Description = "Conference registration and payment tracking API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
