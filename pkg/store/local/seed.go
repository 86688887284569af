package local

import (
	"time"

	"github.com/forestline/eudrtrack/pkg/models"
)

// Sample records written by Reset and EnsureSeeded. Every call returns
// fresh slices so callers may modify them.

var seededAt = time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

func seedRecord(id string, daysLater int) models.Record {
	return models.Record{
		ID:        id,
		CreatedAt: seededAt,
		UpdatedAt: seededAt.AddDate(0, 0, daysLater),
	}
}

func seedOrganizations() []models.Organization {
	return []models.Organization{
		{
			Record:             seedRecord("org-greenleaf", 0),
			Name:               "GreenLeaf Trading GmbH",
			Address:            "Hafenstrasse 12, 20457 Hamburg",
			ContactPerson:      "Anna Becker",
			Email:              "compliance@greenleaf.example",
			Phone:              "+49 40 1234567",
			RegistrationNumber: "HRB 123456",
			Country:            "Germany",
			Website:            "https://greenleaf.example",
		},
	}
}

func seedCustomers() []models.Customer {
	return []models.Customer{
		{
			Record:       seedRecord("cus-nordic-furniture", 2),
			Name:         "Nordic Furniture AB",
			Email:        "purchasing@nordicfurniture.example",
			Phone:        "+46 8 555 0100",
			Address:      "Sveavagen 44, 111 34 Stockholm",
			Country:      "Sweden",
			CustomerType: models.CustomerManufacturer,
			VATNumber:    "SE556677889901",
		},
		{
			Record:       seedRecord("cus-cafe-central", 5),
			Name:         "Cafe Central Distribution",
			Email:        "orders@cafecentral.example",
			Phone:        "+43 1 533 3763",
			Address:      "Herrengasse 14, 1010 Wien",
			Country:      "Austria",
			CustomerType: models.CustomerDistributor,
		},
	}
}

func seedSuppliers() []models.Supplier {
	return []models.Supplier{
		{
			Record:             seedRecord("sup-amazonia-timber", 1),
			Name:               "Amazonia Timber Ltda",
			ContactPerson:      "Joao Silva",
			Email:              "joao@amazoniatimber.example",
			Phone:              "+55 91 3222 1000",
			Address:            "Av. Nazare 500, Belem",
			Country:            "Brazil",
			Certification:      "FSC-C012345",
			RiskLevel:          models.RiskHigh,
			VerificationStatus: models.VerificationPending,
		},
		{
			Record:             seedRecord("sup-kumasi-cocoa", 3),
			Name:               "Kumasi Cocoa Cooperative",
			ContactPerson:      "Ama Owusu",
			Email:              "ama@kumasicocoa.example",
			Phone:              "+233 32 202 2000",
			Address:            "Adum Road 7, Kumasi",
			Country:            "Ghana",
			Certification:      "Rainforest Alliance",
			RiskLevel:          models.RiskMedium,
			VerificationStatus: models.VerificationVerified,
		},
		{
			Record:             seedRecord("sup-sumatra-palm", 4),
			Name:               "Sumatra Palm Estates",
			ContactPerson:      "Budi Santoso",
			Email:              "budi@sumatrapalm.example",
			Phone:              "+62 61 456 7890",
			Address:            "Jl. Gatot Subroto 88, Medan",
			Country:            "Indonesia",
			Certification:      "RSPO",
			RiskLevel:          models.RiskLow,
			VerificationStatus: models.VerificationVerified,
		},
	}
}

func seedProducts() []models.Product {
	return []models.Product{
		{
			Record:        seedRecord("prd-ipe-decking", 6),
			Name:          "Ipe decking boards",
			Description:   "Kiln dried hardwood decking, 21x145 mm",
			Category:      models.CommodityWood,
			HSCode:        "440729",
			Weight:        18.5,
			WeightUnit:    models.WeightTonnes,
			SupplierID:    "sup-amazonia-timber",
			OriginCountry: "Brazil",
			HarvestDate:   "2023-09-12",
			EUDRCompliant: false,
		},
		{
			Record:        seedRecord("prd-cocoa-beans", 7),
			Name:          "Fermented cocoa beans",
			Description:   "Grade I main crop beans",
			Category:      models.CommodityCocoa,
			HSCode:        "1801",
			Weight:        25,
			WeightUnit:    models.WeightTonnes,
			SupplierID:    "sup-kumasi-cocoa",
			OriginCountry: "Ghana",
			HarvestDate:   "2023-11-02",
			EUDRCompliant: true,
		},
		{
			Record:        seedRecord("prd-crude-palm-oil", 8),
			Name:          "Crude palm oil",
			Category:      models.CommodityPalmOil,
			HSCode:        "151110",
			Weight:        40000,
			WeightUnit:    models.WeightKg,
			SupplierID:    "sup-sumatra-palm",
			OriginCountry: "Indonesia",
			EUDRCompliant: true,
		},
	}
}

func seedRawMaterials() []models.RawMaterial {
	return []models.RawMaterial{
		{
			Record:        seedRecord("raw-ipe-logs", 5),
			Name:          "Ipe roundwood logs",
			MaterialType:  models.CommodityWood,
			SupplierID:    "sup-amazonia-timber",
			Quantity:      120,
			Unit:          models.UnitM3,
			OriginCountry: "Brazil",
			HarvestDate:   "2023-08-30",
			Certification: "FSC-C012345",
			Geolocation:   "-3.4653,-62.2159",
		},
		{
			Record:        seedRecord("raw-cocoa-pods", 6),
			Name:          "Cocoa pods",
			MaterialType:  models.CommodityCocoa,
			SupplierID:    "sup-kumasi-cocoa",
			Quantity:      30,
			Unit:          models.UnitTonnes,
			OriginCountry: "Ghana",
			HarvestDate:   "2023-10-20",
			Geolocation:   "6.6885,-1.6244",
		},
	}
}

func seedOrigins() []models.Origin {
	return []models.Origin{
		{
			Record:             seedRecord("ori-para-concession", 2),
			Name:               "Para forest concession 14",
			Country:            "Brazil",
			Region:             "Para",
			Coordinates:        "-3.4653,-62.2159",
			AreaHectares:       5400,
			ForestCoverage:     62,
			DeforestationRisk:  models.RiskHigh,
			LastAssessmentDate: "2023-12-01",
			Certification:      "FSC",
		},
		{
			Record:             seedRecord("ori-ashanti-farms", 3),
			Name:               "Ashanti smallholder farms",
			Country:            "Ghana",
			Region:             "Ashanti",
			Coordinates:        "6.6885,-1.6244",
			AreaHectares:       850,
			ForestCoverage:     18,
			DeforestationRisk:  models.RiskMedium,
			LastAssessmentDate: "2023-11-15",
		},
		{
			Record:            seedRecord("ori-north-sumatra", 4),
			Name:              "North Sumatra estate block B",
			Country:           "Indonesia",
			Region:            "North Sumatra",
			Coordinates:       "2.1154,99.5451",
			AreaHectares:      3100,
			ForestCoverage:    9.5,
			DeforestationRisk: models.RiskLow,
			Certification:     "RSPO",
		},
	}
}

func seedRiskAssessments() []models.RiskAssessment {
	return []models.RiskAssessment{
		{
			Record:             seedRecord("ra-ipe-2024", 9),
			ProductID:          "prd-ipe-decking",
			SupplierID:         "sup-amazonia-timber",
			OriginID:           "ori-para-concession",
			AssessmentDate:     "2024-01-20",
			RiskLevel:          models.RiskHigh,
			RiskScore:          78,
			DeforestationCheck: false,
			LegalityCheck:      true,
			MitigationMeasures: "Request plot level satellite imagery and third party audit",
			Assessor:           "Anna Becker",
			Status:             models.AssessmentInProgress,
		},
		{
			Record:             seedRecord("ra-cocoa-2024", 10),
			ProductID:          "prd-cocoa-beans",
			SupplierID:         "sup-kumasi-cocoa",
			OriginID:           "ori-ashanti-farms",
			AssessmentDate:     "2024-01-22",
			RiskLevel:          models.RiskLow,
			RiskScore:          21,
			DeforestationCheck: true,
			LegalityCheck:      true,
			Assessor:           "Anna Becker",
			Status:             models.AssessmentCompleted,
		},
	}
}

func seedStatements() []models.DueDiligenceStatement {
	return []models.DueDiligenceStatement{
		{
			Record:              seedRecord("dds-cocoa-0001", 11),
			ReferenceNumber:     "DDS-2024-0001",
			OperatorName:        "GreenLeaf Trading GmbH",
			OperatorAddress:     "Hafenstrasse 12, 20457 Hamburg",
			ProductDescription:  "Fermented cocoa beans, grade I",
			HSCode:              "1801",
			Quantity:            25,
			Unit:                models.UnitTonnes,
			CountryOfProduction: "Ghana",
			Geolocation:         "6.6885,-1.6244",
			RiskAssessmentID:    "ra-cocoa-2024",
			Status:              models.StatementSubmitted,
			SubmissionDate:      "2024-01-26",
		},
		{
			Record:              seedRecord("dds-ipe-0002", 12),
			ReferenceNumber:     "DDS-2024-0002",
			OperatorName:        "GreenLeaf Trading GmbH",
			OperatorAddress:     "Hafenstrasse 12, 20457 Hamburg",
			ProductDescription:  "Ipe decking boards, kiln dried",
			HSCode:              "440729",
			Quantity:            18.5,
			Unit:                models.UnitTonnes,
			CountryOfProduction: "Brazil",
			Geolocation:         "-3.4653,-62.2159",
			RiskAssessmentID:    "ra-ipe-2024",
			Status:              models.StatementDraft,
		},
	}
}
