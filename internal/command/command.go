// Package command binds option structs to cobra flags through struct tags:
//
//	File string `flag:"file" short:"f" default:"" usage:"model source file"`
package command

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/dongjun6343/query/internal/errors"
)

var durationType = reflect.TypeOf(time.Duration(0))

// BindCommand declares one flag per field of obj.
func BindCommand(cmd *cobra.Command, obj any) (err error) {
	rt := reflect.TypeOf(obj)
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		flag := field.Tag.Get("flag")
		if flag == "" {
			continue
		}
		shorthand := field.Tag.Get("short")
		defaultValue := field.Tag.Get("default")
		usage := field.Tag.Get("usage")

		switch {
		case field.Type == durationType:
			var defVal time.Duration
			if defaultValue != "" {
				defVal, err = time.ParseDuration(defaultValue)
				if err != nil {
					return errors.Wrapf(err, "default of flag %s", flag)
				}
			}
			cmd.Flags().DurationP(flag, shorthand, defVal, usage)
		case field.Type.Kind() == reflect.String:
			cmd.Flags().StringP(flag, shorthand, defaultValue, usage)
		case field.Type.Kind() == reflect.Bool:
			defVal := false
			if defaultValue != "" {
				defVal, err = strconv.ParseBool(defaultValue)
				if err != nil {
					return errors.Wrapf(err, "default of flag %s", flag)
				}
			}
			cmd.Flags().BoolP(flag, shorthand, defVal, usage)
		case field.Type.Kind() == reflect.Int:
			defVal := 0
			if defaultValue != "" {
				defVal, err = strconv.Atoi(defaultValue)
				if err != nil {
					return errors.Wrapf(err, "default of flag %s", flag)
				}
			}
			cmd.Flags().IntP(flag, shorthand, defVal, usage)
		default:
			panic(fmt.Sprintf("unsupported command flag type: %s", field.Type))
		}
	}

	return nil
}

// BindOptions reads the flags declared by BindCommand back into options.
func BindOptions(cmd *cobra.Command, options any) error {
	rv := reflect.ValueOf(options)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}

	rt := rv.Type()
	var (
		value any
		err   error
	)
	for i := 0; i < rt.NumField(); i++ {
		fieldType := rt.Field(i)
		flag := fieldType.Tag.Get("flag")
		if flag == "" {
			continue
		}
		switch {
		case fieldType.Type == durationType:
			value, err = cmd.Flags().GetDuration(flag)
		case fieldType.Type.Kind() == reflect.String:
			value, err = cmd.Flags().GetString(flag)
		case fieldType.Type.Kind() == reflect.Bool:
			value, err = cmd.Flags().GetBool(flag)
		case fieldType.Type.Kind() == reflect.Int:
			value, err = cmd.Flags().GetInt(flag)
		default:
			return errors.Errorf("unsupported type: %s", fieldType.Type)
		}
		if err != nil {
			return errors.Wrapf(err, "get flag %s error", flag)
		}
		fieldValue := rv.Field(i)
		if fieldValue.CanSet() {
			fieldValue.Set(reflect.ValueOf(value))
		}
	}

	return nil
}
