// Package docs provides the Swagger documentation for the API.
package docs

// @title           Eduverse Backend
// @version         1.0.0
// @description     Thin AI backend for the eduverse classroom app: chat, transcription, speech synthesis, image questions and the spoken image question flow.
// @termsOfService  https://github.com/aashari/go-eduverse-backend/blob/main/LICENSE

// @contact.name   API Support
// @contact.url    https://github.com/aashari/go-eduverse-backend

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8000
// @BasePath  /
