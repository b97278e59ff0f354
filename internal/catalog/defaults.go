package catalog

// Default returns the built-in tool catalog.
func Default() *Catalog {
	return New([]Tool{
		{ID: "/tip-calculator", Name: "Tip Calculator", Category: CategoryEveryday,
			Description: "Work out the tip and total for a restaurant bill at any tip percentage"},
		{ID: "/split-bill-calculator", Name: "Split Bill Calculator", Category: CategoryEveryday,
			Description: "Divide a bill evenly or by share between friends, tip included"},
		{ID: "/sales-tax-calculator", Name: "Sales Tax Calculator", Category: CategoryEveryday,
			Description: "Add or remove sales tax from a price"},
		{ID: "/discount-calculator", Name: "Discount Calculator", Category: CategoryEveryday,
			Description: "Find the sale price and savings for a percent off coupon"},
		{ID: "/percentage-calculator", Name: "Percentage Calculator", Category: CategoryEveryday,
			Description: "Percent of a number, percentage change and ratios"},
		{ID: "/loan-calculator", Name: "Loan Calculator", Category: CategoryFinance,
			Description: "Monthly payment and total interest for a personal or auto loan"},
		{ID: "/mortgage-calculator", Name: "Mortgage Calculator", Category: CategoryFinance,
			Description: "Monthly home loan payment with property tax and insurance"},
		{ID: "/amortization-calculator", Name: "Amortization Calculator", Category: CategoryFinance,
			Description: "Payment schedule showing principal and interest for each month of a loan"},
		{ID: "/interest-calculator", Name: "Interest Calculator", Category: CategoryFinance,
			Description: "Simple interest earned or owed over time"},
		{ID: "/savings-calculator", Name: "Savings Calculator", Category: CategoryFinance,
			Description: "How long it takes to reach a savings goal with monthly deposits"},
		{ID: "/compound-interest-calculator", Name: "Compound Interest Calculator", Category: CategoryFinance,
			Description: "Growth of an investment with compounding interest"},
		{ID: "/retirement-calculator", Name: "Retirement Calculator", Category: CategoryFinance,
			Description: "Project retirement savings and income"},
		{ID: "/bmi-calculator", Name: "BMI Calculator", Category: CategoryHealth,
			Description: "Body mass index from height and weight"},
		{ID: "/body-fat-calculator", Name: "Body Fat Calculator", Category: CategoryHealth,
			Description: "Estimate body fat percentage from body measurements"},
		{ID: "/ideal-weight-calculator", Name: "Ideal Weight Calculator", Category: CategoryHealth,
			Description: "Healthy weight range for your height"},
		{ID: "/calorie-calculator", Name: "Calorie Calculator", Category: CategoryHealth,
			Description: "Daily calorie needs to maintain, lose or gain weight"},
	})
}
