package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pawhome/pawhome-api/internal/models"
	"github.com/pawhome/pawhome-api/internal/repository"
	"github.com/pawhome/pawhome-api/pkg/logger"
)

// ShelterService serves the public shelter directory
type ShelterService struct {
	shelters repository.ShelterRepository
}

// NewShelterService creates a new shelter service
func NewShelterService(shelters repository.ShelterRepository) *ShelterService {
	return &ShelterService{shelters: shelters}
}

// seedShelters is the built-in directory of public animal shelters.
var seedShelters = []models.ShelterSite{
	{
		Name:         "臺北市動物之家",
		Address:      "台北市內湖區潭美街852號",
		Phone:        "02-8791-3254",
		Email:        "shelter@mail.taipei.gov.tw",
		WebsiteURL:   "https://www.tcapo.gov.taipei",
		GoogleMapURL: "https://maps.google.com/?q=臺北市動物之家",
		Description:  "臺北市公立收容所，提供犬貓收容、認養與動物保護服務。",
		Region:       "台北市",
	},
	{
		Name:         "新北市政府動物保護防疫處板橋動物之家",
		Address:      "新北市板橋區板城路28-1號",
		Phone:        "02-8966-2158",
		Email:        "banqiao@ahiqo.ntpc.gov.tw",
		WebsiteURL:   "https://www.ahiqo.ntpc.gov.tw",
		GoogleMapURL: "https://maps.google.com/?q=板橋動物之家",
		Description:  "新北市公立動物之家，開放民眾參觀認養。",
		Region:       "新北市",
	},
	{
		Name:         "桃園市動物保護教育園區",
		Address:      "桃園市新屋區永興里3鄰大牛欄117號",
		Phone:        "03-486-1760",
		Email:        "animal@mail.tycg.gov.tw",
		WebsiteURL:   "https://animal.tycg.gov.tw",
		GoogleMapURL: "https://maps.google.com/?q=桃園市動物保護教育園區",
		Description:  "桃園市公立收容教育園區，結合收容、認養與生命教育。",
		Region:       "桃園市",
	},
	{
		Name:         "臺中市動物之家南屯園區",
		Address:      "台中市南屯區中台路601號",
		Phone:        "04-2385-0976",
		Email:        "apo@taichung.gov.tw",
		WebsiteURL:   "https://www.animal.taichung.gov.tw",
		GoogleMapURL: "https://maps.google.com/?q=臺中市動物之家南屯園區",
		Description:  "臺中市公立動物之家，提供流浪動物收容及認養媒合。",
		Region:       "台中市",
	},
	{
		Name:         "臺南市動物之家灣裡站",
		Address:      "台南市南區省躬里萬年路580巷92號",
		Phone:        "06-296-4439",
		Email:        "wanli@tainan.gov.tw",
		WebsiteURL:   "https://ahipo.tainan.gov.tw",
		GoogleMapURL: "https://maps.google.com/?q=臺南市動物之家灣裡站",
		Description:  "臺南市公立收容所，週二至週日開放認養。",
		Region:       "台南市",
	},
	{
		Name:         "高雄市壽山動物保護教育園區",
		Address:      "高雄市鼓山區萬壽路350號",
		Phone:        "07-551-9059",
		Email:        "shousan@kcg.gov.tw",
		WebsiteURL:   "https://livestock.kcg.gov.tw",
		GoogleMapURL: "https://maps.google.com/?q=壽山動物保護教育園區",
		Description:  "高雄市公立動物保護園區，提供收容、認養與動保教育。",
		Region:       "高雄市",
	},
}

// Seed loads the built-in directory on first boot. An already populated
// directory is left untouched.
func (s *ShelterService) Seed(ctx context.Context) error {
	count, err := s.shelters.Count(ctx)
	if err != nil {
		return NewInternalError("無法初始化收容所資料", err)
	}
	if count > 0 {
		return nil
	}

	shelters := make([]models.ShelterSite, len(seedShelters))
	copy(shelters, seedShelters)
	if err := s.shelters.CreateBatch(ctx, shelters); err != nil {
		return NewInternalError("無法初始化收容所資料", err)
	}

	logger.Log.Info("seeded shelter directory", "count", len(shelters))
	return nil
}

// List returns shelters, optionally filtered by region
func (s *ShelterService) List(ctx context.Context, region string) ([]models.ShelterSite, error) {
	shelters, err := s.shelters.List(ctx, region)
	if err != nil {
		return nil, NewInternalError("無法讀取收容所資料", err)
	}
	return shelters, nil
}

// FindByID returns one shelter
func (s *ShelterService) FindByID(ctx context.Context, id uint) (*models.ShelterSite, error) {
	shelter, err := s.shelters.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("找不到此收容所")
		}
		return nil, NewInternalError("無法讀取收容所資料", err)
	}
	return shelter, nil
}
