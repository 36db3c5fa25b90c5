// Package validator registers the custom binding tags used by request models.
package validator

import (
	"regexp"

	"teamwork/internal/authz"
	"teamwork/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// mimeRegex matches a type/subtype media type without parameters.
var mimeRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9!#$&^_.+-]{0,126}/[a-z0-9][a-z0-9!#$&^_.+-]{0,126}$`)

func validateMIMEType(fl validator.FieldLevel) bool {
	return mimeRegex.MatchString(fl.Field().String())
}

func validateObjectID(fl validator.FieldLevel) bool {
	return primitive.IsValidObjectID(fl.Field().String())
}

func validateRole(fl validator.FieldLevel) bool {
	_, err := authz.ParseRole(fl.Field().String())
	return err == nil
}

func validateChannelType(fl validator.FieldLevel) bool {
	return models.ChannelType(fl.Field().String()).IsValid()
}

func validateProjectStatus(fl validator.FieldLevel) bool {
	return models.ProjectStatus(fl.Field().String()).IsValid()
}

func validateTaskStatus(fl validator.FieldLevel) bool {
	return models.TaskStatus(fl.Field().String()).IsValid()
}

func validateTaskPriority(fl validator.FieldLevel) bool {
	return models.TaskPriority(fl.Field().String()).IsValid()
}

var customValidators = map[string]validator.Func{
	"mimetype":      validateMIMEType,
	"objectid":      validateObjectID,
	"role":          validateRole,
	"channeltype":   validateChannelType,
	"projectstatus": validateProjectStatus,
	"taskstatus":    validateTaskStatus,
	"taskpriority":  validateTaskPriority,
}

// Register adds the custom validators to v.
func Register(v *validator.Validate) error {
	for tag, fn := range customValidators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// RegisterCustomValidators registers all custom validators with gin's validator
func RegisterCustomValidators() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return Register(v)
	}
	return nil
}
