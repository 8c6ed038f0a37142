package handler

import (
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	es_translations "github.com/go-playground/validator/v10/translations/es"
	"github.com/talentoplus/backend/internal/auth"
	"github.com/talentoplus/backend/internal/config"
	"github.com/talentoplus/backend/internal/domain"
	"github.com/talentoplus/backend/internal/service"
)

type Services struct {
	Auth      *service.AuthService
	Employees *service.EmployeeService
	Importer  *service.Importer
	Dashboard *service.Dashboard
	Assistant *service.Assistant
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	translator ut.Translator
	issuer     *auth.Issuer
	services   *Services

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, issuer *auth.Issuer, services *Services) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// 校验错误中使用 json 字段名
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	es := es.New()
	uni := ut.New(es, es)
	trans, _ := uni.GetTranslator("es")
	if err := es_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		translator: trans,
		issuer:     issuer,
		services:   services,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	h.Mux.Get("/healthz", h.Healthz)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
		r.With(h.auth).Patch("/password", h.UpdateMyPassword)
	})

	h.Mux.Get("/departments", h.GetAllDepartments)

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/employees", func(r chi.Router) {
			r.Route("/me", func(r chi.Router) {
				r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin, domain.RoleEmployee}))
				r.Use(h.myEmployeeID)
				r.Get("/", h.GetMyEmployee)
				r.Get("/cv", h.GetMyResume)
			})

			r.Group(func(r chi.Router) {
				r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
				r.Get("/", h.GetAllEmployees)
				r.Post("/", h.CreateEmployee)
				r.Post("/import", h.ImportEmployees)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.employeeID)
					r.Get("/", h.GetEmployee)
					r.Put("/", h.UpdateEmployee)
					r.Delete("/", h.DeleteEmployee)
					r.Get("/cv", h.GetEmployeeResume)
				})
			})
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
			r.Get("/kpis", h.GetKPIs)
			r.Post("/ia-query", h.QueryAssistant)
		})
	})
}
