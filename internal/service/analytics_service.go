package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/commercialspace/backend/internal/domain/entity"
	"github.com/commercialspace/backend/internal/platform/logger"
	"github.com/commercialspace/backend/internal/repository"
)

// PlatformAnalytics is the admin dashboard aggregate. All figures are
// computed on read; nothing here is stored.
type PlatformAnalytics struct {
	Properties PropertyAnalytics `json:"properties"`
	Bookings   BookingAnalytics  `json:"bookings"`
	Users      UserAnalytics     `json:"users"`
	Revenue    RevenueAnalytics  `json:"revenue"`
}

type PropertyAnalytics struct {
	Total     int64            `json:"total"`
	Verified  int64            `json:"verified"`
	ByType    map[string]int64 `json:"by_type"`
	TopCities []CityCount      `json:"top_cities"`
}

type CityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

type BookingAnalytics struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
	Monthly  []MonthlyBucket  `json:"monthly"`
}

type MonthlyBucket struct {
	Month   string  `json:"month"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

type UserAnalytics struct {
	Total  int64            `json:"total"`
	ByRole map[string]int64 `json:"by_role"`
}

type RevenueAnalytics struct {
	Total              float64            `json:"total"`
	TrailingMonth      float64            `json:"trailing_month"`
	AveragePerAccepted float64            `json:"average_per_accepted"`
	ByPropertyType     map[string]float64 `json:"by_property_type"`
}

type AnalyticsService interface {
	Platform(ctx context.Context) (*PlatformAnalytics, error)
}

type analyticsService struct {
	propertyRepo repository.PropertyRepository
	bookingRepo  repository.BookingRepository
	userRepo     repository.UserRepository
	log          logger.Logger
}

func NewAnalyticsService(
	propertyRepo repository.PropertyRepository,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	log logger.Logger,
) AnalyticsService {
	return &analyticsService{
		propertyRepo: propertyRepo,
		bookingRepo:  bookingRepo,
		userRepo:     userRepo,
		log:          log,
	}
}

func (s *analyticsService) Platform(ctx context.Context) (*PlatformAnalytics, error) {
	properties, err := s.propertyRepo.Find(ctx, repository.PropertyFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load properties: %w", err)
	}
	bookings, err := s.bookingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	return &PlatformAnalytics{
		Properties: aggregateProperties(properties),
		Bookings:   aggregateBookings(bookings),
		Users:      aggregateUsers(users),
		Revenue:    aggregateRevenue(bookings),
	}, nil
}

func aggregateProperties(properties []entity.Property) PropertyAnalytics {
	out := PropertyAnalytics{ByType: make(map[string]int64)}
	cities := make(map[string]int64)
	for i := range properties {
		p := &properties[i]
		out.Total++
		if p.Verified {
			out.Verified++
		}
		out.ByType[string(p.Type)]++
		if p.City != "" {
			cities[p.City]++
		}
	}

	for city, count := range cities {
		out.TopCities = append(out.TopCities, CityCount{City: city, Count: count})
	}
	sort.Slice(out.TopCities, func(i, j int) bool {
		if out.TopCities[i].Count != out.TopCities[j].Count {
			return out.TopCities[i].Count > out.TopCities[j].Count
		}
		return out.TopCities[i].City < out.TopCities[j].City
	})
	if len(out.TopCities) > 5 {
		out.TopCities = out.TopCities[:5]
	}
	return out
}

func aggregateBookings(bookings []entity.Booking) BookingAnalytics {
	out := BookingAnalytics{ByStatus: make(map[string]int64)}

	now := time.Now().UTC()
	buckets := make(map[string]*MonthlyBucket, 12)
	var order []string
	for i := 11; i >= 0; i-- {
		month := now.AddDate(0, -i, 0).Format("2006-01")
		buckets[month] = &MonthlyBucket{Month: month}
		order = append(order, month)
	}

	for i := range bookings {
		b := &bookings[i]
		out.Total++
		out.ByStatus[string(b.Status)]++

		if bucket, ok := buckets[b.CreatedAt.UTC().Format("2006-01")]; ok {
			bucket.Count++
			if b.Status == entity.BookingAccepted {
				bucket.Revenue += b.TotalPrice()
			}
		}
	}

	for _, month := range order {
		out.Monthly = append(out.Monthly, *buckets[month])
	}
	return out
}

func aggregateUsers(users []entity.User) UserAnalytics {
	out := UserAnalytics{ByRole: make(map[string]int64)}
	for i := range users {
		out.Total++
		out.ByRole[string(users[i].Role)]++
	}
	return out
}

// aggregateRevenue counts accepted bookings only; pending and rejected
// requests never bill.
func aggregateRevenue(bookings []entity.Booking) RevenueAnalytics {
	out := RevenueAnalytics{ByPropertyType: make(map[string]float64)}
	monthAgo := time.Now().UTC().AddDate(0, -1, 0)

	var accepted int64
	for i := range bookings {
		b := &bookings[i]
		if b.Status != entity.BookingAccepted {
			continue
		}
		price := b.TotalPrice()
		accepted++
		out.Total += price
		out.ByPropertyType[string(b.Property.Type)] += price
		if b.CreatedAt.After(monthAgo) {
			out.TrailingMonth += price
		}
	}
	if accepted > 0 {
		out.AveragePerAccepted = out.Total / float64(accepted)
	}
	return out
}
