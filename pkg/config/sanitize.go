/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"reflect"
	"strings"
)

// Redacted renders cfg as a map keyed by json name with every field tagged
// `sensitive:"true"` removed, for logging the effective configuration.
func Redacted(cfg interface{}) map[string]interface{} {
	out, _ := redact(reflect.ValueOf(cfg)).(map[string]interface{})
	if out == nil {
		return map[string]interface{}{}
	}

	return out
}

func redact(v reflect.Value) interface{} {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}

		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		out := make(map[string]interface{}, t.NumField())

		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || f.Tag.Get("sensitive") == "true" {
				continue
			}

			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")

			switch name {
			case "-":
				continue
			case "":
				name = f.Name
			}

			out[name] = redact(v.Field(i))
		}

		return out
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return v.Interface()
		}

		out := make(map[string]interface{}, v.Len())

		iter := v.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = redact(iter.Value())
		}

		return out
	case reflect.Slice, reflect.Array:
		out := make([]interface{}, v.Len())
		for i := range out {
			out[i] = redact(v.Index(i))
		}

		return out
	case reflect.Invalid:
		return nil
	default:
		return v.Interface()
	}
}
