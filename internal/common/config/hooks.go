package config

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// CustomHooks is passed to viper.Unmarshal for every stackcheck config struct.
var CustomHooks = []viper.DecoderConfigOption{
	viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		SecondsDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)),
}

var durationType = reflect.TypeOf(time.Duration(0))

// SecondsDurationHookFunc decodes durations leniently.
// Bare integers, either as numbers or as digit-only strings such as E2E_TIMEOUT=300, are read as seconds;
// any other string goes through time.ParseDuration.
func SecondsDurationHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != durationType || f == durationType {
			return data, nil
		}
		switch f.Kind() {
		case reflect.String:
			s := strings.TrimSpace(data.(string))
			if s == "" {
				return time.Duration(0), nil
			}
			if seconds, err := strconv.ParseInt(s, 10, 64); err == nil {
				return time.Duration(seconds) * time.Second, nil
			}
			return time.ParseDuration(s)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return time.Duration(reflect.ValueOf(data).Int()) * time.Second, nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return time.Duration(reflect.ValueOf(data).Uint()) * time.Second, nil
		case reflect.Float32, reflect.Float64:
			return time.Duration(reflect.ValueOf(data).Float() * float64(time.Second)), nil
		default:
			return data, nil
		}
	}
}
