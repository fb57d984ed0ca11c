package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/travel-discovery-mcp/internal/pkg/errors"
)

const (
	dateLayout        = "2006-01-02"
	minTermLength     = 2
	rangeExceededHint = "Please provide a smaller range between date_start and date_end."
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// в ошибках используем имена полей из JSON
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// Validate - валидация структуры. Нарушения возвращаются как bad_input
// со списком полей.
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewBadInput(err.Error(), "")
	}

	fields := make([]string, 0, len(verrs))
	details := make(map[string]interface{}, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
		details[fe.Field()] = describe(fe)
	}

	return apperrors.NewBadInput(
		fmt.Sprintf("Invalid parameters: %s", strings.Join(fields, ", ")),
		"Check the tool input schema for the expected parameter formats.",
	).WithDetails(details)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	}
	return fmt.Sprintf("failed on '%s'", fe.Tag())
}

// ValidateAutocompleteTerm - термин автодополнения не пустой и не короче двух символов
func ValidateAutocompleteTerm(term string) error {
	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		return apperrors.NewBadInput("Autocomplete term cannot be empty.", "")
	}
	if utf8.RuneCountInString(trimmed) < minTermLength {
		return apperrors.NewBadInput("Autocomplete term must contain at least 2 characters.", "")
	}
	return nil
}

// ValidateResolveTerms - оба термина заданы
func ValidateResolveTerms(fromTerm, toTerm string) error {
	if strings.TrimSpace(fromTerm) == "" || strings.TrimSpace(toTerm) == "" {
		return apperrors.NewBadInput("Both 'from_term' and 'to_term' must be provided.", "")
	}
	return nil
}

// ValidateDateRange проверяет формат дат и длину диапазона.
// end раньше start не считается ошибкой.
func ValidateDateRange(start, end string, maxDays int) error {
	startDate, err := time.Parse(dateLayout, strings.TrimSpace(start))
	if err != nil {
		return apperrors.NewBadInput("Invalid date format. Use YYYY-MM-DD.", "")
	}
	endDate, err := time.Parse(dateLayout, strings.TrimSpace(end))
	if err != nil {
		return apperrors.NewBadInput("Invalid date format. Use YYYY-MM-DD.", "")
	}

	days := int(endDate.Sub(startDate).Hours() / 24)
	if days > maxDays {
		return apperrors.NewRangeExceeded(
			fmt.Sprintf("Date range exceeds the maximum of %d days.", maxDays),
			rangeExceededHint,
		)
	}
	return nil
}
