package model

import "trip-planner/internal/pkg/i18n"

// Transportation 出行方式
type Transportation string

const (
	TransportPublicTransit   Transportation = "publicTransit"
	TransportRent            Transportation = "rent"
	TransportPersonalVehicle Transportation = "personalVehicle"

	// 旧版表单的拼写，解析时归一为 personalVehicle
	legacyPersonalVehicle = "personalVehical"
)

// Transportations 表单下拉选项顺序
var Transportations = []Transportation{TransportPublicTransit, TransportRent, TransportPersonalVehicle}

// ParseTransportation 解析出行方式，兼容旧拼写
func ParseTransportation(s string) (Transportation, bool) {
	if s == legacyPersonalVehicle {
		return TransportPersonalVehicle, true
	}
	for _, t := range Transportations {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// LabelKey 界面文案 key
func (t Transportation) LabelKey() string {
	switch t {
	case TransportPublicTransit:
		return i18n.KeyTransportPublic
	case TransportRent:
		return i18n.KeyTransportRent
	case TransportPersonalVehicle:
		return i18n.KeyTransportPersonal
	default:
		return ""
	}
}

// HotelTier 酒店星级
type HotelTier string

const (
	HotelOneStar   HotelTier = "oneStar"
	HotelTwoStar   HotelTier = "twoStar"
	HotelThreeStar HotelTier = "threeStar"
	HotelFourStar  HotelTier = "fourStar"
	HotelFiveStar  HotelTier = "fiveStar"
)

// HotelTiers 表单下拉选项顺序
var HotelTiers = []HotelTier{HotelOneStar, HotelTwoStar, HotelThreeStar, HotelFourStar, HotelFiveStar}

// Stars 星级数值，未知值返回 0
func (h HotelTier) Stars() int {
	for i, tier := range HotelTiers {
		if tier == h {
			return i + 1
		}
	}
	return 0
}

// LabelKey 界面文案 key
func (h HotelTier) LabelKey() string {
	switch h {
	case HotelOneStar:
		return i18n.KeyHotelOneStar
	case HotelTwoStar:
		return i18n.KeyHotelTwoStar
	case HotelThreeStar:
		return i18n.KeyHotelThreeStar
	case HotelFourStar:
		return i18n.KeyHotelFourStar
	case HotelFiveStar:
		return i18n.KeyHotelFiveStar
	default:
		return ""
	}
}

// TravellerCount 出行人数 (one..six)
type TravellerCount string

const (
	TravellerOne   TravellerCount = "one"
	TravellerTwo   TravellerCount = "two"
	TravellerThree TravellerCount = "three"
	TravellerFour  TravellerCount = "four"
	TravellerFive  TravellerCount = "five"
	TravellerSix   TravellerCount = "six"
)

// TravellerCounts 表单下拉选项顺序
var TravellerCounts = []TravellerCount{TravellerOne, TravellerTwo, TravellerThree, TravellerFour, TravellerFive, TravellerSix}

// Int 人数，未知值返回 0
func (c TravellerCount) Int() int {
	for i, count := range TravellerCounts {
		if count == c {
			return i + 1
		}
	}
	return 0
}
