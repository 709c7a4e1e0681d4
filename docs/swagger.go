package docs

// @title           FleetOps Admin API
// @version         1.0
// @description     Fare and pricing resolution engine for fleet operations. Manages the pricing catalog, quotes and stores booking fares, tracks extra charges and reconciles payments.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3004
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
