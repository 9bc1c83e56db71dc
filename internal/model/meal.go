package model

import "time"

// Meal mirrors the Meals table.  Macros are grams.
type Meal struct {
	ID          uint64    // Meals.MealID
	UserID      uint64    // Meals.UserID (owner)
	Date        time.Time // Meals.Date
	Time        string    // Meals.Time as HH:mm
	Description string    // Meals.MealDescription
	Calories    float64   // Meals.Calories
	Protein     float64   // Meals.Protein
	Carbs       float64   // Meals.Carbs
	Fats        float64   // Meals.Fats
}

// MealInput is the POST/PATCH body for a meal.
type MealInput struct {
	Date            *string  `json:"Date"`
	Time            *string  `json:"Time"`
	MealDescription *string  `json:"MealDescription"`
	Calories        *float64 `json:"Calories"`
	Protein         *float64 `json:"Protein"`
	Carbs           *float64 `json:"Carbs"`
	Fats            *float64 `json:"Fats"`
}

// MealView is the public representation of a meal.
type MealView struct {
	MealID          uint64  `json:"MealID" xml:"MealID"`
	Date            string  `json:"Date" xml:"Date"`
	Time            string  `json:"Time" xml:"Time"`
	MealDescription string  `json:"MealDescription" xml:"MealDescription"`
	Calories        float64 `json:"Calories" xml:"Calories"`
	Protein         float64 `json:"Protein" xml:"Protein"`
	Carbs           float64 `json:"Carbs" xml:"Carbs"`
	Fats            float64 `json:"Fats" xml:"Fats"`
}

// NewMeal validates the input and builds a meal owned by userID.
func NewMeal(id, userID uint64, in MealInput) (Meal, error) {
	var m Meal
	if userID == 0 {
		return m, invalid("UserID", "UserID must be a positive number")
	}
	date, err := pastDate("Date", str(in.Date))
	if err != nil {
		return m, err
	}
	tm, err := clock(str(in.Time))
	if err != nil {
		return m, err
	}
	desc, err := description("MealDescription", str(in.MealDescription))
	if err != nil {
		return m, err
	}
	if in.Calories == nil || *in.Calories <= 0 || *in.Calories > 5000 {
		return m, invalid("Calories", "Calories must be a number between 1 and 5000")
	}
	if in.Protein == nil || *in.Protein < 0 || *in.Protein > 500 {
		return m, invalid("Protein", "Protein must be a number between 0 and 500")
	}
	if in.Carbs == nil || *in.Carbs < 0 || *in.Carbs > 500 {
		return m, invalid("Carbs", "Carbs must be a number between 0 and 500")
	}
	if in.Fats == nil || *in.Fats < 0 || *in.Fats > 200 {
		return m, invalid("Fats", "Fats must be a number between 0 and 200")
	}
	return Meal{
		ID:          id,
		UserID:      userID,
		Date:        date,
		Time:        tm,
		Description: desc,
		Calories:    *in.Calories,
		Protein:     *in.Protein,
		Carbs:       *in.Carbs,
		Fats:        *in.Fats,
	}, nil
}

// Merge overlays the fields present in the input on top of current.
func (in MealInput) Merge(current Meal) MealInput {
	date := current.Date.Format(dateLayout)
	out := MealInput{
		Date:            &date,
		Time:            &current.Time,
		MealDescription: &current.Description,
		Calories:        &current.Calories,
		Protein:         &current.Protein,
		Carbs:           &current.Carbs,
		Fats:            &current.Fats,
	}
	if in.Date != nil {
		out.Date = in.Date
	}
	if in.Time != nil {
		out.Time = in.Time
	}
	if in.MealDescription != nil {
		out.MealDescription = in.MealDescription
	}
	if in.Calories != nil {
		out.Calories = in.Calories
	}
	if in.Protein != nil {
		out.Protein = in.Protein
	}
	if in.Carbs != nil {
		out.Carbs = in.Carbs
	}
	if in.Fats != nil {
		out.Fats = in.Fats
	}
	return out
}

// View returns the public representation of the meal.
func (m Meal) View() MealView {
	return MealView{
		MealID:          m.ID,
		Date:            m.Date.Format(dateLayout),
		Time:            m.Time,
		MealDescription: m.Description,
		Calories:        m.Calories,
		Protein:         m.Protein,
		Carbs:           m.Carbs,
		Fats:            m.Fats,
	}
}
