// Package validator 封装go-playground/validator，统一数据校验与错误转换
//
// 使用方式：
//
//	type Book struct {
//	    Title string `json:"title" validate:"required,max=100"`
//	}
//	if err := validator.Struct(book); err != nil {
//	    return err // *apperrors.AppError，错误码ErrCodeValidation
//	}
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

var (
	once     sync.Once
	validate *validator.Validate

	letterRe = regexp.MustCompile(`[a-zA-Z]`)
	digitRe  = regexp.MustCompile(`[0-9]`)
)

// instance 返回全局校验器（首次调用时注册自定义规则）
func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// 错误信息使用json字段名，与API契约保持一致
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		// notfuture: 年份不能晚于当前年份
		_ = validate.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
			switch fl.Field().Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				return fl.Field().Int() <= int64(time.Now().Year())
			}
			return false
		})

		// password: 必须同时包含字母和数字
		_ = validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return letterRe.MatchString(s) && digitRe.MatchString(s)
		})
	})
	return validate
}

// Register 注册自定义校验规则
// 领域包在init中调用（如图书分类"genre"）
func Register(tag string, fn func(value string) bool) {
	err := instance().RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("注册校验规则%s失败: %v", tag, err))
	}
}

// Struct 校验结构体
// 返回第一个失败字段对应的AppError（ErrCodeValidation）
func Struct(s interface{}) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperrors.WithMessage(apperrors.ErrValidation, message(verrs[0]))
	}
	return apperrors.Wrap(err, "数据校验异常")
}

// message 将校验失败转换为用户友好的提示
func message(fe validator.FieldError) string {
	field := fe.Field()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s不能为空", field)
	case "max":
		if isString {
			return fmt.Sprintf("%s长度不能超过%s个字符", field, fe.Param())
		}
		return fmt.Sprintf("%s不能大于%s", field, fe.Param())
	case "min":
		if isString {
			return fmt.Sprintf("%s长度不能少于%s个字符", field, fe.Param())
		}
		return fmt.Sprintf("%s不能小于%s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s格式不正确", field)
	case "notfuture":
		return fmt.Sprintf("%s不能晚于当前年份", field)
	case "password":
		return apperrors.ErrWeakPassword.Message
	default:
		return fmt.Sprintf("%s取值非法", field)
	}
}
