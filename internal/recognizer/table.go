package recognizer

import (
	"math"
	"strings"
)

// Macros is a macro profile for some number of servings
type Macros struct {
	Calories float64 `json:"calories"`
	Carbs    float64 `json:"carbs"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
}

// Scale multiplies every field by servings and rounds to whole units
func (m Macros) Scale(servings float64) Macros {
	return Macros{
		Calories: math.Round(m.Calories * servings),
		Carbs:    math.Round(m.Carbs * servings),
		Protein:  math.Round(m.Protein * servings),
		Fat:      math.Round(m.Fat * servings),
	}
}

// Rescale converts values entered for oldServings to newServings, keeping the ratio
func Rescale(m Macros, oldServings, newServings float64) Macros {
	if oldServings <= 0 {
		return m
	}
	return m.Scale(newServings / oldServings)
}

// GenericMeal is the per-serving estimate used when no table item matches
var GenericMeal = Macros{Calories: 300, Carbs: 40, Protein: 15, Fat: 10}

// Food is one row of the nutrition table, per serving
type Food struct {
	Name string
	Macros
}

// Table is a static name to macro lookup
type Table struct {
	foods []Food
}

// NewTable builds a table from foods, keeping their order for tie-breaks
func NewTable(foods []Food) *Table {
	return &Table{foods: foods}
}

// DefaultTable returns the built-in Korean food table
func DefaultTable() *Table {
	return NewTable(koreanFoods)
}

// Foods returns the table rows
func (t *Table) Foods() []Food {
	return t.foods
}

// Lookup finds the table row for name, matching case-insensitively by
// substring in either direction. When the name contains table items the
// longest one wins, so "엄마표 비빔밥" resolves to 비빔밥 rather than 밥.
// Otherwise the shortest item containing the name wins.
func (t *Table) Lookup(name string) (Food, bool) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return Food{}, false
	}

	var best Food
	found := false
	for _, f := range t.foods {
		item := strings.ToLower(f.Name)
		if strings.Contains(query, item) && (!found || len(item) > len(best.Name)) {
			best, found = f, true
		}
	}
	if found {
		return best, true
	}

	for _, f := range t.foods {
		item := strings.ToLower(f.Name)
		if strings.Contains(item, query) && (!found || len(item) < len(best.Name)) {
			best, found = f, true
		}
	}
	return best, found
}

// Estimate returns the macros for servings of name, falling back to GenericMeal
func (t *Table) Estimate(name string, servings float64) Macros {
	if f, ok := t.Lookup(name); ok {
		return f.Macros.Scale(servings)
	}
	return GenericMeal.Scale(servings)
}

var koreanFoods = []Food{
	// Rice
	{"밥", Macros{210, 48, 4, 0.5}},
	{"쌀밥", Macros{210, 48, 4, 0.5}},
	{"현미밥", Macros{218, 45, 5, 2}},
	{"보리밥", Macros{195, 44, 4, 0.8}},
	{"잡곡밥", Macros{200, 43, 5, 1.5}},
	{"볶음밥", Macros{380, 55, 10, 12}},
	{"김치볶음밥", Macros{400, 58, 12, 13}},
	{"새우볶음밥", Macros{420, 60, 15, 14}},

	// Soups and stews
	{"김치찌개", Macros{120, 10, 8, 5}},
	{"된장찌개", Macros{120, 10, 8, 5}},
	{"순두부찌개", Macros{150, 12, 10, 7}},
	{"부대찌개", Macros{280, 20, 15, 16}},
	{"갈비탕", Macros{350, 15, 25, 20}},
	{"설렁탕", Macros{250, 12, 20, 12}},
	{"삼계탕", Macros{450, 30, 35, 20}},
	{"미역국", Macros{90, 8, 6, 4}},
	{"콩나물국", Macros{80, 7, 5, 3}},

	// Side dishes
	{"김치", Macros{15, 3, 1, 0.2}},
	{"깍두기", Macros{18, 4, 1, 0.2}},
	{"나물", Macros{40, 6, 2, 1}},
	{"멸치볶음", Macros{120, 8, 15, 3}},
	{"계란말이", Macros{150, 2, 12, 10}},
	{"두부조림", Macros{130, 6, 10, 8}},
	{"어묵볶음", Macros{140, 12, 8, 6}},

	// Meat
	{"불고기", Macros{250, 8, 22, 15}},
	{"삼겹살", Macros{330, 0, 20, 28}},
	{"돼지고기", Macros{300, 0, 22, 24}},
	{"갈비", Macros{350, 5, 25, 26}},
	{"제육볶음", Macros{280, 10, 20, 18}},
	{"닭갈비", Macros{260, 15, 23, 12}},
	{"치킨", Macros{350, 20, 25, 20}},
	{"양념치킨", Macros{380, 28, 23, 20}},
	{"후라이드치킨", Macros{340, 15, 26, 20}},

	// Noodles
	{"라면", Macros{500, 65, 10, 20}},
	{"짜장면", Macros{550, 75, 15, 20}},
	{"짬뽕", Macros{480, 60, 18, 15}},
	{"비빔면", Macros{520, 70, 12, 20}},
	{"냉면", Macros{420, 70, 12, 8}},
	{"물냉면", Macros{400, 68, 10, 6}},
	{"비빔냉면", Macros{450, 72, 14, 10}},
	{"잔치국수", Macros{380, 65, 10, 8}},
	{"칼국수", Macros{420, 68, 14, 10}},
	{"우동", Macros{400, 70, 12, 8}},

	// Korean mains
	{"비빔밥", Macros{490, 65, 15, 16}},
	{"김밥", Macros{320, 45, 10, 10}},
	{"떡볶이", Macros{380, 65, 8, 10}},
	{"순대", Macros{350, 40, 12, 15}},
	{"전", Macros{200, 15, 8, 12}},
	{"파전", Macros{250, 25, 8, 13}},
	{"김치전", Macros{230, 22, 7, 12}},
	{"감자전", Macros{220, 28, 5, 10}},

	// Chinese
	{"탕수육", Macros{450, 40, 20, 25}},
	{"깐풍기", Macros{420, 35, 25, 20}},
	{"양장피", Macros{380, 30, 18, 22}},
	{"마파두부", Macros{280, 15, 15, 18}},

	// Snack food
	{"떡국", Macros{350, 55, 10, 10}},
	{"라볶이", Macros{450, 60, 12, 18}},
	{"쫄면", Macros{400, 65, 10, 12}},
	{"만두", Macros{280, 35, 10, 11}},
	{"군만두", Macros{300, 35, 10, 13}},
	{"물만두", Macros{260, 35, 10, 9}},

	// Seafood
	{"회", Macros{120, 2, 23, 3}},
	{"초밥", Macros{180, 25, 12, 3}},
	{"생선구이", Macros{200, 0, 30, 8}},
	{"고등어구이", Macros{250, 0, 28, 15}},
	{"갈치구이", Macros{220, 0, 26, 12}},
	{"조기구이", Macros{180, 0, 25, 8}},

	// Western
	{"스테이크", Macros{450, 5, 35, 32}},
	{"파스타", Macros{380, 50, 12, 14}},
	{"피자", Macros{280, 35, 12, 10}},
	{"햄버거", Macros{450, 40, 20, 22}},
	{"샌드위치", Macros{350, 35, 15, 16}},
	{"샐러드", Macros{150, 10, 5, 10}},

	// Desserts
	{"빵", Macros{260, 50, 8, 4}},
	{"케이크", Macros{350, 45, 5, 18}},
	{"도넛", Macros{300, 35, 4, 16}},
	{"과자", Macros{180, 25, 2, 8}},
	{"초콜릿", Macros{200, 24, 2, 12}},
	{"아이스크림", Macros{250, 30, 4, 13}},

	// Drinks
	{"커피", Macros{5, 1, 0, 0}},
	{"라떼", Macros{120, 10, 6, 6}},
	{"주스", Macros{110, 26, 1, 0}},
	{"콜라", Macros{140, 35, 0, 0}},
	{"맥주", Macros{150, 13, 1, 0}},
	{"소주", Macros{60, 0, 0, 0}},

	// Other
	{"족발", Macros{380, 5, 30, 27}},
	{"보쌈", Macros{350, 8, 28, 24}},
	{"곱창", Macros{420, 3, 18, 38}},
	{"막창", Macros{400, 2, 16, 36}},
}
