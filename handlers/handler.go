package handlers

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"bluepink-backend/internal/auth"
	"bluepink-backend/internal/blog"
	"bluepink-backend/internal/cart"
	"bluepink-backend/internal/orders"
	"bluepink-backend/internal/products"
	"bluepink-backend/internal/testimonials"
	"bluepink-backend/internal/users"
	"bluepink-backend/middleware"
	"bluepink-backend/pkg/ctxmanage"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// The handler depends on small store interfaces instead of the concrete
// Conf types so the HTTP layer can be exercised without a database.

type UserStore interface {
	InsertUser(ctx context.Context, nu users.NewUser) (users.User, error)
	Authenticate(ctx context.Context, email string, password string) (users.User, error)
	GetUserByID(ctx context.Context, userID string) (users.User, error)
	FetchRole(ctx context.Context, userID string) (string, error)
	GetProfile(ctx context.Context, userID string) (users.Profile, error)
	UpsertProfile(ctx context.Context, p users.Profile) (users.Profile, error)
}

type ProductStore interface {
	InsertProduct(ctx context.Context, np products.NewProduct) (products.Product, error)
	ListProducts(ctx context.Context) ([]products.Product, error)
	GetProductByID(ctx context.Context, productID string) (products.Product, error)
	UpdateProductInDB(ctx context.Context, productID string, p products.Product) (products.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
}

type CartStore interface {
	AddItem(ctx context.Context, userID string, productID string, quantity int) error
	SetQuantity(ctx context.Context, userID string, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID string, productID string) error
	Clear(ctx context.Context, userID string) error
	GetCart(ctx context.Context, userID string) (cart.CartResponse, error)
}

type OrderStore interface {
	CreateFromCart(ctx context.Context, userID string, customer orders.Customer) (orders.Order, error)
	ListByUser(ctx context.Context, userID string) ([]orders.Order, error)
	ListAll(ctx context.Context) ([]orders.AdminOrder, error)
	UpdateStatus(ctx context.Context, orderID string, next string) (bool, error)
}

type BlogStore interface {
	InsertPost(ctx context.Context, np blog.NewPost) (blog.Post, error)
	ListPosts(ctx context.Context) ([]blog.Post, error)
	GetPostByID(ctx context.Context, postID string) (blog.Post, error)
	UpdatePostInDB(ctx context.Context, postID string, p blog.Post) (blog.Post, error)
	DeletePost(ctx context.Context, postID string) error
}

type TestimonialStore interface {
	InsertTestimonial(ctx context.Context, nt testimonials.NewTestimonial) (testimonials.Testimonial, error)
	ListTestimonials(ctx context.Context) ([]testimonials.Testimonial, error)
	UpdateTestimonialInDB(ctx context.Context, testimonialID string, t testimonials.Testimonial) (testimonials.Testimonial, error)
	DeleteTestimonial(ctx context.Context, testimonialID string) error
}

// EventProducer is satisfied by the kafka store. Emission is fire-and-forget.
type EventProducer interface {
	ProduceMessage(topic string, key []byte, value []byte) error
}

type Handler struct {
	uConf UserStore
	pConf ProductStore
	cConf CartStore
	oConf OrderStore
	bConf BlogStore
	tConf TestimonialStore
	k     EventProducer

	keys     *auth.Keys
	validate *validator.Validate

	uploadsDir    string
	publicBaseURL string
}

func NewHandler(keys *auth.Keys, u UserStore, p ProductStore, ct CartStore, o OrderStore,
	b BlogStore, t TestimonialStore, k EventProducer, uploadsDir string, publicBaseURL string) *Handler {
	return &Handler{
		uConf:         u,
		pConf:         p,
		cConf:         ct,
		oConf:         o,
		bConf:         b,
		tConf:         t,
		k:             k,
		keys:          keys,
		validate:      validator.New(),
		uploadsDir:    uploadsDir,
		publicBaseURL: publicBaseURL,
	}
}

// API builds the gin engine with all routes and middleware applied.
func API(keys *auth.Keys, h *Handler) *gin.Engine {
	r := gin.New()
	mode := os.Getenv("GIN_MODE")
	if mode == gin.ReleaseMode {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	m, err := middleware.NewMid(keys)
	if err != nil {
		panic(err)
	}

	r.Use(middleware.Logger(), gin.Recovery())
	r.GET("/ping", healthCheck)
	r.Static("/uploads", h.uploadsDir)

	usersGroup := r.Group("/users")
	{
		usersGroup.POST("/signup", h.Signup)
		usersGroup.POST("/login", h.Login)

		usersGroup.Use(m.Authentication())
		usersGroup.GET("/me", h.Me)
		usersGroup.GET("/role", h.Role)
		usersGroup.GET("/profile", h.GetProfile)
		usersGroup.POST("/profile", h.UpsertProfile)
	}

	productsGroup := r.Group("/products")
	{
		productsGroup.GET("/list", h.ListProducts)
		productsGroup.GET("/view/:id", h.GetProduct)

		productsGroup.Use(m.Authentication())
		productsGroup.POST("/create", m.Authorize(h.CreateProduct, auth.RoleAdmin))
		productsGroup.PUT("/update/:id", m.Authorize(h.UpdateProduct, auth.RoleAdmin))
		productsGroup.DELETE("/delete/:id", m.Authorize(h.DeleteProduct, auth.RoleAdmin))
	}

	blogGroup := r.Group("/blog")
	{
		blogGroup.GET("/list", h.ListPosts)
		blogGroup.GET("/view/:id", h.GetPost)

		blogGroup.Use(m.Authentication())
		blogGroup.POST("/create", m.Authorize(h.CreatePost, auth.RoleAdmin))
		blogGroup.PUT("/update/:id", m.Authorize(h.UpdatePost, auth.RoleAdmin))
		blogGroup.DELETE("/delete/:id", m.Authorize(h.DeletePost, auth.RoleAdmin))
	}

	testimonialsGroup := r.Group("/testimonials")
	{
		testimonialsGroup.GET("/list", h.ListTestimonials)

		testimonialsGroup.Use(m.Authentication())
		testimonialsGroup.POST("/create", m.Authorize(h.CreateTestimonial, auth.RoleAdmin))
		testimonialsGroup.PUT("/update/:id", m.Authorize(h.UpdateTestimonial, auth.RoleAdmin))
		testimonialsGroup.DELETE("/delete/:id", m.Authorize(h.DeleteTestimonial, auth.RoleAdmin))
	}

	cartGroup := r.Group("/cart")
	{
		cartGroup.Use(m.Authentication())
		cartGroup.GET("", h.GetCart)
		cartGroup.POST("/items", h.AddToCart)
		cartGroup.PUT("/items/:productID", h.UpdateCartQuantity)
		cartGroup.DELETE("/items/:productID", h.RemoveFromCart)
		cartGroup.DELETE("", h.ClearCart)
	}

	ordersGroup := r.Group("/orders")
	{
		ordersGroup.Use(m.Authentication())
		ordersGroup.POST("/checkout", h.Checkout)
		ordersGroup.GET("", h.ListMyOrders)
		ordersGroup.GET("/all", m.Authorize(h.ListAllOrders, auth.RoleAdmin))
		ordersGroup.PATCH("/status/:id", m.Authorize(h.UpdateOrderStatus, auth.RoleAdmin))
	}

	uploadsGroup := r.Group("/upload")
	{
		uploadsGroup.Use(m.Authentication())
		uploadsGroup.POST("/:bucket", m.Authorize(h.UploadImage, auth.RoleAdmin))
	}

	return r
}

func healthCheck(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	fmt.Println("healthCheck handler ", traceId)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// currentClaims pulls the validated claims stored by the authentication
// middleware.
func currentClaims(c *gin.Context) (auth.Claims, bool) {
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	return claims, ok
}
