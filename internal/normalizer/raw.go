// Package normalizer превращает сырые ответы discovery API в доменные структуры.
// Все функции чистые: ничего не логируют и не держат состояния, счётчики
// пропущенных записей возвращаются вызывающему коду.
package normalizer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// asObject возвращает JSON объект или nil
func asObject(v interface{}) map[string]interface{} {
	obj, _ := v.(map[string]interface{})
	return obj
}

// asList возвращает JSON массив или nil
func asList(v interface{}) []interface{} {
	list, _ := v.([]interface{})
	return list
}

// truthy повторяет проверку "значение задано": nil, пустая строка, ноль,
// false и пустые коллекции считаются отсутствующими.
func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	case float64:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	case []interface{}:
		return len(val) > 0
	case map[string]interface{}:
		return len(val) > 0
	}
	return true
}

// firstTruthy возвращает первое заданное значение среди ключей объекта
func firstTruthy(obj map[string]interface{}, keys ...string) interface{} {
	for _, key := range keys {
		if v, ok := obj[key]; ok && truthy(v) {
			return v
		}
	}
	return nil
}

// text приводит скалярное значение к строке, nil даёт пустую строку
func text(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	}
	return fmt.Sprint(v)
}

// number читает числовое значение (json.Number, float64, int или числовую строку)
func number(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	}
	return 0, false
}

// integer читает целое значение. Дробные числа усекаются к нулю,
// строка должна содержать целое число.
func integer(v interface{}) (int64, bool) {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i, true
		}
		f, err := val.Float64()
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return int64(f), true
	case float64:
		if math.IsInf(val, 0) || math.IsNaN(val) {
			return 0, false
		}
		return int64(val), true
	case int:
		return int64(val), true
	case int64:
		return val, true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		return i, err == nil
	}
	return 0, false
}
