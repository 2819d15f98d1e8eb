package taxonomy

// defaultCategories maps every fine-grained category of the source dataset
// to its coarse label. Categories absent from this table remap to Unmapped.
var defaultCategories = map[string]string{
	// Billing Question
	"activate_my_card":                        Billing,
	"card_payment_fee_charged":                Billing,
	"card_payment_not_recognised":             Billing,
	"card_payment_wrong_exchange_rate":        Billing,
	"cash_withdrawal_charge":                  Billing,
	"cash_withdrawal_not_recognised":          Billing,
	"exchange_charge":                         Billing,
	"exchange_rate":                           Billing,
	"exchange_via_app":                        Billing,
	"fee_applied":                             Billing,
	"fiat_currency_support":                   Billing,
	"pending_card_payment":                    Billing,
	"pending_cash_withdrawal":                 Billing,
	"pending_top_up":                          Billing,
	"pending_transfer":                        Billing,
	"top_up_by_bank_transfer_charge":          Billing,
	"top_up_by_card_charge":                   Billing,
	"top_up_failed":                           Billing,
	"top_up_limits":                           Billing,
	"top_up_reverted":                         Billing,
	"transaction_charged_twice":               Billing,
	"transfer_fee_charged":                    Billing,
	"beneficiary_not_allowed":                 Billing,
	"card_arrival":                            Billing,
	"card_delivery_estimate":                  Billing,
	"card_linking":                            Billing,
	"card_not_working":                        Billing,
	"decline_card_payment":                    Billing,
	"declined_cash_withdrawal":                Billing,
	"declined_transfer":                       Billing,
	"direct_debit_payment_not_recognised":     Billing,
	"failed_transfer":                         Billing,
	"topping_up_by_card":                      Billing,
	"transfer_not_received_by_recipient":      Billing,
	"transfer_timing":                         Billing,
	"wrong_amount_of_cash_received":           Billing,
	"wrong_exchange_rate_for_cash_withdrawal": Billing,
	"cancel_transfer":                         Billing,
	"request_refund":                          Billing,

	// Technical Issue
	"app_does_not_work":         Technical,
	"face_id_not_working":       Technical,
	"fingerprint_not_working":   Technical,
	"passcode_forgotten":        Technical,
	"pin_blocked":               Technical,
	"unable_to_verify_identity": Technical,
	"verify_my_identity":        Technical,
	"getting_physical_card":     Technical,

	// General Inquiry
	"ATMs_support":                                     General,
	"account_blocked":                                  General,
	"age_limit":                                        General,
	"apple_pay_or_google_pay":                          General,
	"atm_support":                                      General,
	"automatic_top_up":                                 General,
	"balance_not_updated_after_bank_transfer":          General,
	"balance_not_updated_after_cheque_or_cash_deposit": General,
	"card_about_to_expire":                             General,
	"card_acceptance":                                  General,
	"card_swallowed":                                   General,
	"change_pin":                                       General,
	"contactless_not_working":                          General,
	"country_support":                                  General,
	"disposable_card_limits":                           General,
	"edit_personal_details":                            General,
	"get_disposable_virtual_card":                      General,
	"get_physical_card":                                General,
	"getting_spare_card":                               General,
	"how_do_I_report_fraud":                            General,
	"lost_or_stolen_card":                              General,
	"lost_or_stolen_phone":                             General,
	"order_physical_card":                              General,
	"supported_cards_and_currencies":                   General,
	"verify_source_of_funds":                           General,
	"verify_top_up":                                    General,
	"virtual_card_not_working":                         General,
	"what_are_my_limits":                               General,
	"what_is_a_disposable_virtual_card":                General,
	"what_is_my_pin":                                   General,
	"why_verify_identity":                              General,
	"terminate_account":                                General,
}
