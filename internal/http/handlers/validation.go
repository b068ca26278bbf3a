package handlers

import (
	"errors"
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/yungbote/coincollector-backend/internal/domain/library"
)

var registerOnce sync.Once
var registerErr error

// RegisterValidators adds the coinvalue and coincountry binding tags to gin's
// validator. It is safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("unexpected binding validator engine")
			return
		}
		if err := v.RegisterValidation("coinvalue", validCoinValue); err != nil {
			registerErr = err
			return
		}
		registerErr = v.RegisterValidation("coincountry", validCoinCountry)
	})
	return registerErr
}

func validCoinValue(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		_, err := library.ParseCoinValue(int(f.Int()))
		return err == nil
	}
	return false
}

func validCoinCountry(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.String {
		return false
	}
	_, err := library.ParseCountry(f.String())
	return err == nil
}
