package businessflow

// Content topics
const (
	TopicAdzan = "adzan"
	TopicDoa   = "doa"
)

type contentLine struct {
	arabic      string
	latin       string
	translation string
	repeat      int
	start       float64
	end         float64
}

type contentTopic struct {
	title       string
	description string
	lines       []contentLine
	notes       []string
}

var contentTopics = map[string]contentTopic{
	TopicAdzan: {
		title:       "Lafadz Adzan",
		description: "Bacaan adzan lengkap beserta tulisan latin dan artinya",
		lines: []contentLine{
			{
				arabic:      "اللهُ أَكْبَرُ، اللهُ أَكْبَرُ",
				latin:       "Allahu akbar, Allahu akbar",
				translation: "Allah Maha Besar, Allah Maha Besar",
				repeat:      2,
				start:       0,
				end:         18.5,
			},
			{
				arabic:      "أَشْهَدُ أَنْ لَا إِلٰهَ إِلَّا اللهُ",
				latin:       "Asyhadu an laa ilaaha illallah",
				translation: "Aku bersaksi bahwa tiada Tuhan selain Allah",
				repeat:      2,
				start:       18.5,
				end:         37,
			},
			{
				arabic:      "أَشْهَدُ أَنَّ مُحَمَّدًا رَسُولُ اللهِ",
				latin:       "Asyhadu anna Muhammadar Rasulullah",
				translation: "Aku bersaksi bahwa Nabi Muhammad adalah utusan Allah",
				repeat:      2,
				start:       37,
				end:         57,
			},
			{
				arabic:      "حَيَّ عَلَى الصَّلَاةِ",
				latin:       "Hayya 'alash shalah",
				translation: "Marilah mendirikan shalat",
				repeat:      2,
				start:       57,
				end:         73.5,
			},
			{
				arabic:      "حَيَّ عَلَى الْفَلَاحِ",
				latin:       "Hayya 'alal falah",
				translation: "Marilah meraih kemenangan",
				repeat:      2,
				start:       73.5,
				end:         90,
			},
			{
				arabic:      "اللهُ أَكْبَرُ، اللهُ أَكْبَرُ",
				latin:       "Allahu akbar, Allahu akbar",
				translation: "Allah Maha Besar, Allah Maha Besar",
				repeat:      1,
				start:       90,
				end:         99.5,
			},
			{
				arabic:      "لَا إِلٰهَ إِلَّا اللهُ",
				latin:       "Laa ilaaha illallah",
				translation: "Tiada Tuhan selain Allah",
				repeat:      1,
				start:       99.5,
				end:         106,
			},
		},
		notes: []string{
			"Pada adzan Subuh, setelah \"Hayya 'alal falah\" ditambahkan \"Ash-shalaatu khairum minan naum\" (shalat itu lebih baik daripada tidur) sebanyak dua kali.",
		},
	},
	TopicDoa: {
		title:       "Doa Setelah Adzan",
		description: "Doa yang dibaca setelah mendengar adzan beserta tulisan latin dan artinya",
		lines: []contentLine{
			{
				arabic:      "اللَّهُمَّ رَبَّ هَذِهِ الدَّعْوَةِ التَّامَّةِ",
				latin:       "Allahumma rabba haadzihid da'watit taammah",
				translation: "Ya Allah, Tuhan pemilik seruan yang sempurna ini",
				start:       0,
				end:         4.2,
			},
			{
				arabic:      "وَالصَّلَاةِ الْقَائِمَةِ",
				latin:       "Wash shalaatil qaa'imah",
				translation: "dan shalat yang akan didirikan",
				start:       4.2,
				end:         6.8,
			},
			{
				arabic:      "آتِ مُحَمَّدًا الْوَسِيلَةَ وَالْفَضِيلَةَ",
				latin:       "Aati Muhammadanil wasiilata wal fadhiilah",
				translation: "berikanlah kepada Nabi Muhammad wasilah dan keutamaan",
				start:       6.8,
				end:         11.5,
			},
			{
				arabic:      "وَابْعَثْهُ مَقَامًا مَحْمُودًا الَّذِي وَعَدْتَهُ",
				latin:       "Wab'atshu maqaamam mahmuudanil ladzii wa'adtah",
				translation: "dan bangkitkanlah beliau pada kedudukan terpuji yang telah Engkau janjikan",
				start:       11.5,
				end:         17,
			},
		},
		notes: []string{
			"Diriwayatkan oleh Imam Bukhari dari Jabir bin Abdullah.",
		},
	},
}
