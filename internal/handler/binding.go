package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/user/movieapi/internal/utils"
)

const (
	nonFieldErrors = "non_field_errors"
	maxBodyBytes   = 1 << 20
)

var errTrailingData = errors.New("body must only contain a single JSON value")

// MovieInput 创建/更新电影的请求体，三个字段均为必填（整体替换）
type MovieInput struct {
	Title *string `json:"title" binding:"required,notblank,max=255"`
	Genre *string `json:"genre" binding:"required,notblank,max=255"`
	Year  *string `json:"year" binding:"required,notblank,max=255"` // 不校验年份格式
}

// normalize 去除首尾空白，长度校验针对去空白后的值
func (in *MovieInput) normalize() {
	for _, s := range []*string{in.Title, in.Genre, in.Year} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
}

// values 仅在校验通过后调用
func (in *MovieInput) values() (title, genre, year string) {
	return *in.Title, *in.Genre, *in.Year
}

var (
	registerOnce sync.Once
	registerErr  error
)

// registerValidation 注册 notblank 校验，并让校验错误使用 JSON 字段名
func registerValidation() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("不支持的校验引擎: %T", binding.Validator.Engine())
			return
		}
		if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
			registerErr = fmt.Errorf("注册 notblank 校验失败: %w", err)
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return registerErr
}

// bindMovie 解析、规整并校验请求体，失败时返回字段错误
func bindMovie(c *gin.Context) (*MovieInput, utils.FieldErrors) {
	var in MovieInput
	if err := decodeJSON(c, &in); err != nil {
		return nil, fieldErrors(err)
	}

	in.normalize()
	if err := binding.Validator.ValidateStruct(&in); err != nil {
		return nil, fieldErrors(err)
	}
	return &in, nil
}

// decodeJSON 只接受单个 JSON 值，空请求体按 {} 处理
func decodeJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil {
		return nil
	}
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	dec := json.NewDecoder(body)

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

func fieldErrors(err error) utils.FieldErrors {
	errs := utils.FieldErrors{}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			errs.Add(fe.Field(), validationMessage(fe))
		}
		return errs
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		errs.Add(typeErr.Field, "Not a valid string.")
		return errs
	}

	errs.Add(nonFieldErrors, "Invalid data. Expected a JSON object.")
	return errs
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "notblank":
		return "This field may not be blank."
	case "max":
		return "Ensure this field has no more than " + fe.Param() + " characters."
	default:
		return "Invalid value."
	}
}
