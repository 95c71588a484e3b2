package database

import (
	"aksara_backend/internal/model"

	"gorm.io/gorm"
)

type seedQuestion struct {
	question string
	options  [4]string
	answer   string
}

type seedMaterial struct {
	contents  []model.ModuleContent
	questions map[string][]seedQuestion
}

// 默认模块的阅读材料与测验题，按 slug 对应
var defaultMaterials = map[string]seedMaterial{
	"mengenal-aksara-jawa": {
		contents: []model.ModuleContent{
			{Title: "Sejarah Aksara Jawa", Body: "Aksara Jawa atau Hanacaraka adalah aksara turunan Brahmi yang dipakai untuk menulis bahasa Jawa.", Order: 1},
			{Title: "Carakan", Body: "Carakan terdiri dari 20 aksara dasar: ha na ca ra ka, da ta sa wa la, pa dha ja ya nya, ma ga ba tha nga.", Order: 2},
			{Title: "Cara Menulis", Body: "Aksara Jawa ditulis dari kiri ke kanan tanpa spasi antarkata.", Order: 3},
		},
		questions: map[string][]seedQuestion{
			"easy": {
				{"Ada berapa aksara dasar dalam carakan?", [4]string{"20", "24", "18", "26"}, "A"},
				{"Aksara pertama dalam carakan adalah...", [4]string{"na", "ha", "ka", "ca"}, "B"},
				{"Aksara Jawa ditulis dari arah...", [4]string{"kanan ke kiri", "atas ke bawah", "kiri ke kanan", "bawah ke atas"}, "C"},
				{"Nama lain Aksara Jawa adalah...", [4]string{"Pegon", "Kawi", "Jawi", "Hanacaraka"}, "D"},
			},
			"medium": {
				{"Baris kedua carakan adalah...", [4]string{"da ta sa wa la", "pa dha ja ya nya", "ma ga ba tha nga", "ha na ca ra ka"}, "A"},
				{"Aksara setelah 'pa' adalah...", [4]string{"ja", "dha", "ya", "la"}, "B"},
				{"Baris terakhir carakan adalah...", [4]string{"ha na ca ra ka", "da ta sa wa la", "ma ga ba tha nga", "pa dha ja ya nya"}, "C"},
				{"Aksara sebelum 'ra' adalah...", [4]string{"ka", "na", "ha", "ca"}, "D"},
			},
			"hard": {
				{"Aksara 'nya' berada pada baris ke...", [4]string{"empat", "dua", "tiga", "lima"}, "A"},
				{"Aksara Jawa termasuk jenis aksara...", [4]string{"alfabet", "abugida", "logogram", "silabis murni"}, "B"},
				{"Aksara ke-10 dalam carakan adalah...", [4]string{"wa", "sa", "la", "pa"}, "C"},
				{"Aksara terakhir dalam carakan adalah...", [4]string{"ba", "ga", "tha", "nga"}, "D"},
			},
		},
	},
	"sandhangan": {
		contents: []model.ModuleContent{
			{Title: "Sandhangan Swara", Body: "Sandhangan swara mengubah bunyi vokal: wulu (i), suku (u), taling (é), pepet (ê), taling tarung (o).", Order: 1},
			{Title: "Sandhangan Panyigeg", Body: "Sandhangan panyigeg menutup suku kata: layar (r), cecak (ng), wignyan (h), pangkon (mematikan aksara).", Order: 2},
		},
		questions: map[string][]seedQuestion{
			"easy": {
				{"Sandhangan wulu mengubah bunyi menjadi...", [4]string{"i", "u", "é", "o"}, "A"},
				{"Sandhangan suku mengubah bunyi menjadi...", [4]string{"i", "u", "ê", "o"}, "B"},
				{"Sandhangan pepet melambangkan bunyi...", [4]string{"a", "i", "ê", "u"}, "C"},
				{"Sandhangan taling melambangkan bunyi...", [4]string{"u", "o", "i", "é"}, "D"},
			},
			"medium": {
				{"Taling tarung melambangkan bunyi...", [4]string{"o", "é", "u", "i"}, "A"},
				{"Sandhangan layar menambahkan bunyi...", [4]string{"ng", "r", "h", "k"}, "B"},
				{"Sandhangan cecak menambahkan bunyi...", [4]string{"r", "h", "ng", "n"}, "C"},
				{"Sandhangan wignyan menambahkan bunyi...", [4]string{"ng", "r", "n", "h"}, "D"},
			},
			"hard": {
				{"Pangkon berfungsi untuk...", [4]string{"mematikan aksara", "menambah bunyi r", "menambah bunyi ng", "mengubah vokal"}, "A"},
				{"Cakra menyisipkan bunyi...", [4]string{"ya", "ra", "la", "wa"}, "B"},
				{"Pengkal menyisipkan bunyi...", [4]string{"ra", "wa", "ya", "la"}, "C"},
				{"Keret melambangkan bunyi...", [4]string{"ra", "ya", "ri", "rê"}, "D"},
			},
		},
	},
	"pasangan": {
		contents: []model.ModuleContent{
			{Title: "Fungsi Pasangan", Body: "Pasangan dipakai untuk mematikan aksara sebelumnya di tengah kalimat, karena pangkon hanya dipakai di akhir kalimat.", Order: 1},
			{Title: "Letak Pasangan", Body: "Sebagian besar pasangan ditulis di bawah aksara sebelumnya; pasangan ha, sa, dan pa ditulis di sebelah kanannya.", Order: 2},
		},
		questions: map[string][]seedQuestion{
			"easy": {
				{"Pasangan dipakai untuk...", [4]string{"mematikan aksara sebelumnya", "menambah vokal", "menulis angka", "menulis nama"}, "A"},
				{"Jumlah pasangan sama dengan jumlah...", [4]string{"sandhangan", "aksara carakan", "angka Jawa", "aksara murda"}, "B"},
				{"Sebagian besar pasangan ditulis di...", [4]string{"atas aksara", "kiri aksara", "bawah aksara", "akhir kalimat"}, "C"},
				{"Di akhir kalimat, aksara mati ditulis dengan...", [4]string{"pasangan", "cecak", "layar", "pangkon"}, "D"},
			},
			"medium": {
				{"Pasangan yang ditulis di sebelah kanan aksara adalah...", [4]string{"ha, sa, pa", "ka, ta, la", "na, ca, ra", "ma, ga, ba"}, "A"},
				{"Pada kata 'anak lanang', aksara 'k' dimatikan dengan...", [4]string{"pangkon", "pasangan la", "cecak", "wignyan"}, "B"},
				{"Pasangan ditulis pada aksara yang mengikuti...", [4]string{"vokal", "sandhangan", "konsonan mati", "angka"}, "C"},
				{"Pangkon tidak dipakai di tengah kalimat karena...", [4]string{"tidak ada bentuknya", "hanya untuk angka", "hanya untuk nama", "berfungsi sebagai koma"}, "D"},
			},
			"hard": {
				{"Kata 'kembang' memerlukan pasangan untuk aksara...", [4]string{"ba", "ka", "ma", "nga"}, "A"},
				{"Pasangan ha ditulis...", [4]string{"di bawah aksara", "di sebelah kanan aksara", "di atas aksara", "tidak ada"}, "B"},
				{"Pada 'jaran mlayu', aksara 'ma' ditulis sebagai...", [4]string{"aksara dasar", "pangkon", "pasangan", "murda"}, "C"},
				{"Aksara yang mendapat pasangan dibaca...", [4]string{"dengan vokal i", "tanpa bunyi", "dengan bunyi ng", "menyambung konsonan mati sebelumnya"}, "D"},
			},
		},
	},
}

// seedModuleMaterials 为缺少材料或题目的默认模块补齐数据，已有数据的不动
func seedModuleMaterials(db *gorm.DB) error {
	var modules []model.Module
	if err := db.Order("module_number ASC").Find(&modules).Error; err != nil {
		return err
	}

	for _, m := range modules {
		material, ok := defaultMaterials[m.Slug]
		if !ok {
			continue
		}

		var contentCount int64
		if err := db.Model(&model.ModuleContent{}).Where("module_id = ?", m.ID).Count(&contentCount).Error; err != nil {
			return err
		}
		if contentCount == 0 && len(material.contents) > 0 {
			contents := make([]model.ModuleContent, len(material.contents))
			for i, c := range material.contents {
				c.ModuleID = m.ID
				contents[i] = c
			}
			if err := db.Create(&contents).Error; err != nil {
				return err
			}
		}

		for _, difficulty := range []string{"easy", "medium", "hard"} {
			var questionCount int64
			if err := db.Model(&model.QuizQuestion{}).
				Where("module_id = ? AND difficulty = ?", m.ID, difficulty).
				Count(&questionCount).Error; err != nil {
				return err
			}
			seeds := material.questions[difficulty]
			if questionCount > 0 || len(seeds) == 0 {
				continue
			}

			questions := make([]model.QuizQuestion, len(seeds))
			for i, q := range seeds {
				questions[i] = model.QuizQuestion{
					ModuleID:       m.ID,
					Difficulty:     difficulty,
					QuestionNumber: i + 1,
					Question:       q.question,
					OptionA:        q.options[0],
					OptionB:        q.options[1],
					OptionC:        q.options[2],
					OptionD:        q.options[3],
					CorrectAnswer:  q.answer,
				}
			}
			if err := db.Create(&questions).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
