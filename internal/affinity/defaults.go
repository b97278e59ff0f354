package affinity

// DefaultGraph returns the curated relations between the calculator tools.
func DefaultGraph() *Graph {
	return NewGraph(map[string][]RelatedTool{
		"/tip-calculator": {
			{ToolID: "/split-bill-calculator", Reason: "Split the total, tip included, between everyone at the table"},
			{ToolID: "/sales-tax-calculator", Reason: "See how much of the bill is tax"},
			{ToolID: "/discount-calculator", Reason: "Check what a coupon or happy-hour discount saves"},
		},
		"/split-bill-calculator": {
			{ToolID: "/tip-calculator", Reason: "Add a tip before splitting"},
			{ToolID: "/percentage-calculator", Reason: "Split by percentage instead of evenly"},
		},
		"/sales-tax-calculator": {
			{ToolID: "/discount-calculator", Reason: "Apply a discount before tax"},
			{ToolID: "/tip-calculator", Reason: "Tip on the pre-tax or post-tax amount"},
		},
		"/discount-calculator": {
			{ToolID: "/percentage-calculator", Reason: "Work with any percentage change"},
			{ToolID: "/sales-tax-calculator", Reason: "Add tax to the discounted price"},
		},
		"/percentage-calculator": {
			{ToolID: "/discount-calculator", Reason: "Turn a percentage off into a final price"},
			{ToolID: "/sales-tax-calculator", Reason: "Apply a tax rate to a price"},
		},
		"/loan-calculator": {
			{ToolID: "/interest-calculator", Reason: "Compare with simple interest on the same amount"},
			{ToolID: "/amortization-calculator", Reason: "See how each payment splits into principal and interest"},
			{ToolID: "/savings-calculator", Reason: "Plan how long it takes to save instead of borrow"},
		},
		"/mortgage-calculator": {
			{ToolID: "/amortization-calculator", Reason: "View the full repayment schedule"},
			{ToolID: "/loan-calculator", Reason: "Compare with a personal loan"},
			{ToolID: "/savings-calculator", Reason: "Plan savings for a down payment"},
		},
		"/amortization-calculator": {
			{ToolID: "/loan-calculator", Reason: "Work out the monthly payment first"},
			{ToolID: "/mortgage-calculator", Reason: "Include taxes and insurance for a home loan"},
		},
		"/interest-calculator": {
			{ToolID: "/compound-interest-calculator", Reason: "See the effect of compounding"},
			{ToolID: "/loan-calculator", Reason: "Turn the rate into a monthly payment"},
		},
		"/savings-calculator": {
			{ToolID: "/retirement-calculator", Reason: "Project your savings to retirement"},
			{ToolID: "/interest-calculator", Reason: "Estimate the interest you will earn"},
		},
		"/compound-interest-calculator": {
			{ToolID: "/savings-calculator", Reason: "Set a monthly savings goal"},
			{ToolID: "/retirement-calculator", Reason: "Plan long-term growth"},
		},
		"/retirement-calculator": {
			{ToolID: "/savings-calculator", Reason: "Set a monthly savings goal"},
			{ToolID: "/compound-interest-calculator", Reason: "See how returns compound over decades"},
		},
		"/bmi-calculator": {
			{ToolID: "/body-fat-calculator", Reason: "BMI ignores muscle mass; body fat does not"},
			{ToolID: "/ideal-weight-calculator", Reason: "Find a healthy weight range for your height"},
		},
		"/body-fat-calculator": {
			{ToolID: "/bmi-calculator", Reason: "Compare with your BMI"},
			{ToolID: "/calorie-calculator", Reason: "Plan calories for your goal"},
		},
		"/ideal-weight-calculator": {
			{ToolID: "/bmi-calculator", Reason: "Check your current BMI"},
			{ToolID: "/calorie-calculator", Reason: "Plan calories to reach your target"},
		},
		"/calorie-calculator": {
			{ToolID: "/bmi-calculator", Reason: "Track your BMI as your weight changes"},
			{ToolID: "/body-fat-calculator", Reason: "Measure progress beyond the scale"},
		},
	})
}
