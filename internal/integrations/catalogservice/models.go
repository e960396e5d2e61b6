package catalogservice

import (
	"fmt"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
)

// Shop модель салона из каталога
type Shop struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"` // IANA-идентификатор, например "Europe/Moscow"
}

// Service модель услуги из каталога
type Service struct {
	ID              int64            `json:"id"`
	ShopID          int64            `json:"shop_id"`
	Name            string           `json:"name"`
	BaseDurationMin int              `json:"base_duration_min"`
	BasePrice       float64          `json:"base_price"`
	Variants        []ServiceVariant `json:"variants"`
}

// ServiceVariant вариант услуги с поправками к длительности и цене
type ServiceVariant struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	DurationDelta int     `json:"duration_delta_min"`
	PriceDelta    float64 `json:"price_delta"`
}

// ErrorResponse модель ошибки от каталога
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ResolveVariant возвращает итоговые длительность и цену услуги с учётом
// варианта. При variantID == nil действуют базовые значения.
// Каталог - внешний сервис, итоговая длительность перепроверяется:
// отрицательная дельта варианта может схлопнуть услугу до бессмыслицы.
func (s *Service) ResolveVariant(variantID *int64) (durationMin int, price float64, err error) {
	durationMin = s.BaseDurationMin
	price = s.BasePrice

	if variantID != nil {
		found := false
		for i := range s.Variants {
			if s.Variants[i].ID == *variantID {
				durationMin += s.Variants[i].DurationDelta
				price += s.Variants[i].PriceDelta
				found = true
				break
			}
		}
		if !found {
			return 0, 0, ErrVariantNotFound
		}
	}

	if durationMin < domain.MinServiceDurationMinutes || durationMin > domain.MaxServiceDurationMinutes {
		return 0, 0, fmt.Errorf("%w: service duration %d min is out of range [%d, %d]",
			ErrInvalidResponse, durationMin, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
	}

	return durationMin, price, nil
}
