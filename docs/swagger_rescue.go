package docs

//go:generate swag init --instanceName rescue -g docs/swagger_rescue.go -d ../ -o ./rescue --outputTypes go

// @title           Rescue Coordination API
// @version         1.0
// @description     Rescue records, candidate assignment, rescuer location relay, chat and live viewport streams.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
