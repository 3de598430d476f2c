package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"canteen/internal/domain"
	"canteen/internal/repository"
	"canteen/internal/service"
)

type Server struct {
	engine  *gin.Engine
	auth    *service.AuthService
	menu    *service.MenuService
	orders  *service.OrderService
	reports *service.ReportService
}

// NewServer собирает gin-движок с маршрутами API и страниц.
// templatesGlob пустой — страницы не регистрируются (используется тестами).
func NewServer(log zerolog.Logger, templatesGlob string,
	auth *service.AuthService, menu *service.MenuService,
	orders *service.OrderService, reports *service.ReportService,
) *Server {
	r := gin.New()
	r.Use(RequestLogger(log), gin.Recovery())
	s := &Server{engine: r, auth: auth, menu: menu, orders: orders, reports: reports}
	s.registerRoutes(templatesGlob)
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes(templatesGlob string) {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if templatesGlob != "" {
		s.engine.LoadHTMLGlob(templatesGlob)
		s.engine.GET("/", s.page("login.html"))
		s.engine.GET("/signup", s.page("signup.html"))
		s.engine.GET("/menu", s.page("menu.html"))
		s.engine.GET("/my-orders", s.page("orders.html"))
		s.engine.GET("/reports", s.page("reports.html"))
	}

	api := s.engine.Group("/api")
	{
		api.POST("/login", s.login)
		api.POST("/signup", s.signup)
		api.GET("/menu", s.getMenu)
		api.POST("/order", s.placeOrder)
		api.GET("/orders/:user_id", s.getOrders)
		api.GET("/users", s.getUsers)
		api.GET("/reports/weekly", s.weeklyReport)
		api.GET("/reports/monthly", s.monthlyReport)
	}
}

func (s *Server) page(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, name, nil)
	}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	UserID int64       `json:"user_id"`
	Name   string      `json:"name"`
	Role   domain.Role `json:"role"`
}

// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginReq true "Credentials"
// @Success 200 {object} loginResp
// @Failure 401 {object} map[string]string
// @Router /api/login [post]
func (s *Server) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	u, err := s.auth.Login(c, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResp{UserID: u.ID, Name: u.Name, Role: u.Role})
}

type signupReq struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// @Summary Sign up
// @Tags auth
// @Accept json
// @Produce json
// @Param input body signupReq true "New user"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /api/signup [post]
func (s *Server) signup(c *gin.Context) {
	var req signupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if _, err := s.auth.Signup(c, req.Name, req.Email, req.Password, req.Role); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

// @Summary Menu with role-adjusted prices
// @Tags menu
// @Produce json
// @Param role query string false "Role (default Student)"
// @Success 200 {array} domain.Meal
// @Router /api/menu [get]
func (s *Server) getMenu(c *gin.Context) {
	role := domain.Role(c.Query("role"))
	meals, err := s.menu.List(c, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meals)
}

// @Summary Place an order
// @Tags orders
// @Accept json
// @Produce json
// @Param input body domain.OrderRequest true "Order"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /api/order [post]
func (s *Server) placeOrder(c *gin.Context) {
	var req domain.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := s.orders.Place(c, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully!"})
}

// @Summary Order history, one row per order item
// @Tags orders
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {array} domain.OrderLine
// @Failure 400 {object} map[string]string
// @Router /api/orders/{user_id} [get]
func (s *Server) getOrders(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	lines, err := s.orders.ListByUser(c, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} domain.User
// @Router /api/users [get]
func (s *Server) getUsers(c *gin.Context) {
	users, err := s.auth.ListUsers(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// @Summary Weekly sales report
// @Tags reports
// @Produce json
// @Success 200 {array} object
// @Router /api/reports/weekly [get]
func (s *Server) weeklyReport(c *gin.Context) {
	c.JSON(http.StatusOK, s.reports.Weekly(c))
}

// @Summary Monthly sales report
// @Tags reports
// @Produce json
// @Success 200 {array} object
// @Router /api/reports/monthly [get]
func (s *Server) monthlyReport(c *gin.Context) {
	c.JSON(http.StatusOK, s.reports.Monthly(c))
}

// respondError переводит ошибку в статус и короткое сообщение; для
// неизвестных ошибок текст наружу не выходит
func respondError(c *gin.Context, err error) {
	status := mapErrorToStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidOperation):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
