package shared

import (
	"log"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys are the English texts; Turkish is the default locale.
var turkishMessages = map[string]string{
	// http
	"resource not found":    "Kayıt bulunamadı",
	"duplicate entry":       "Kayıt zaten mevcut",
	"validation failed":     "Doğrulama başarısız",
	"invalid request body":  "Geçersiz istek gövdesi",
	"unauthorized":          "Yetkisiz erişim",
	"internal server error": "Sunucu hatası",

	// auth
	"authentication required": "Kimlik doğrulama gerekli",
	"invalid credentials":     "Geçersiz kimlik bilgileri",
	"authentication error":    "Kimlik doğrulama hatası",

	// prices
	"price record not found":           "Fiyat kaydı bulunamadı",
	"this company name already exists": "Bu firma adı zaten mevcut",
	"company name cannot be empty":     "Firma adı boş olamaz",
	"AC price must be a valid number":  "AC fiyatı geçerli bir sayı olmalı",
	"DC price must be a valid number":  "DC fiyatı geçerli bir sayı olmalı",
	"invalid ID":                       "Geçersiz ID",

	// import
	"invalid URL format": "Geçersiz URL formatı",
	"a source URL starting with http:// or https:// is required": "Geçerli bir kaynak URL'si gerekli (http:// veya https://)",
	"could not reach the upstream API":                           "API'ye ulaşılamadı",
	"upstream request failed":                                    "API isteği başarısız",
	"upstream request failed: %d - %s":                           "API isteği başarısız: %d - %s",
	"upstream response is not in JSON format":                    "API yanıtı JSON formatında değil",
	"upstream response is not valid JSON":                        "API yanıtı geçerli bir JSON değil",
	"upstream response is too large":                             "API yanıtı çok büyük",
	"upstream response unsuccessful":                             "API yanıtı başarısız",
	"upstream response unsuccessful: %s":                         "API yanıtı başarısız: %s",
	"unknown error":                                              "Bilinmeyen hata",
	"no data found to import":                                    "İçe aktarılacak veri bulunamadı",
	"import data is required":                                    "İçe aktarma verisi gerekli",
	"no selected items to process":                               "İşlenecek seçili öğe bulunamadı",
	"import completed successfully":                              "İçe aktarma başarıyla tamamlandı",

	// searches
	"search not found":           "Arama bulunamadı",
	"search criteria is required": "Arama kriterleri gerekli",
}

func init() {
	for key, msg := range turkishMessages {
		if err := message.SetString(language.Turkish, key, msg); err != nil {
			log.Printf("shared: failed to register translation for %q: %v", key, err)
		}
	}
}
