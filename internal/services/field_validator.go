package services

import (
	"fleetcore/internal/models"
	"fleetcore/pkg/errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// 日期字段的规范格式
const dateLayout = "2006-01-02"

// 布尔字段允许的字面量，不做自由文本强转
var booleanLiterals = map[string]bool{
	"0": true, "1": true, "true": true, "false": true,
}

// ValidateFieldValue 校验单个(字段定义, 原始值)对。
// 纯函数，无副作用、不访问存储；返回空切片表示合法。
// 唯一性约束不在这里检查，由调用方通过is_unique标记另行处理。
func ValidateFieldValue(field *models.VehicleTypeField, rawValue string) []errors.FieldError {
	var errs []errors.FieldError

	value := strings.TrimSpace(rawValue)

	// 必填检查，命中后短路
	if value == "" {
		if field.IsRequired {
			errs = append(errs, errors.FieldError{
				Key:     field.Key,
				Message: fmt.Sprintf("%s 为必填项", field.Name),
			})
		}
		return errs
	}

	switch field.FieldType {
	case models.FieldTypeNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			errs = append(errs, errors.FieldError{
				Key:     field.Key,
				Message: fmt.Sprintf("%s 必须是数字", field.Name),
			})
		}

	case models.FieldTypeDate:
		// 解析后重新格式化必须还原输入，以拒绝 2024-02-30 这类无效日期
		t, err := time.Parse(dateLayout, value)
		if err != nil || t.Format(dateLayout) != value {
			errs = append(errs, errors.FieldError{
				Key:     field.Key,
				Message: fmt.Sprintf("%s 必须是有效日期（格式 YYYY-MM-DD）", field.Name),
			})
		}

	case models.FieldTypeSelect:
		options := field.OptionList()
		found := false
		for _, opt := range options {
			if opt == value {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, errors.FieldError{
				Key:     field.Key,
				Message: fmt.Sprintf("%s 必须是以下选项之一: %s", field.Name, strings.Join(options, ", ")),
			})
		}

	case models.FieldTypeBoolean:
		if !booleanLiterals[strings.ToLower(value)] {
			errs = append(errs, errors.FieldError{
				Key:     field.Key,
				Message: fmt.Sprintf("%s 必须是布尔值（0/1/true/false）", field.Name),
			})
		}

	case models.FieldTypeText, models.FieldTypeTextarea:
		// 文本类型除必填外不做格式约束
	}

	return errs
}
