package parser

// SystemPrompt frames the model as an extraction engine that answers with JSON only.
const SystemPrompt = `You are an invoice data extraction specialist. Extract structured data from invoice images with high accuracy. Return JSON only, no explanations or markdown formatting.`

// InvoicePrompt is the fixed extraction instruction sent with every invoice image. It
// defines the exact output schema consumed by Normalize.
const InvoicePrompt = `Extract all data from this invoice image. Return this exact JSON structure:

{
  "confidence": 0.0-1.0,
  "header": {
    "invoice_number": "string",
    "date": "YYYY-MM-DD",
    "customer_id": "string or null",
    "company_name": "string",
    "bill_to": {"name": "", "address": "", "city": "", "state": "", "zip": ""},
    "ship_to": {"name": "", "address": "", "city": "", "state": "", "zip": ""}
  },
  "line_items": [
    {"item_number": "", "description": "", "quantity": 0, "unit_price": 0.00, "total": 0.00}
  ],
  "totals": {
    "subtotal": 0.00,
    "tax_rate": 0.00,
    "tax_amount": 0.00,
    "shipping": 0.00,
    "other": 0.00,
    "total": 0.00
  },
  "additional_info": {
    "salesperson": "",
    "po_number": "",
    "ship_date": "",
    "ship_via": "",
    "terms": "",
    "fob": ""
  }
}

RULES:
1. Currency values are bare numbers: remove currency symbols ($) and thousands separators (,).
2. Dates may appear in any format (M/D/YYYY, D-Mon-YY, YYYY-MM-DD, ...). Always output YYYY-MM-DD.
3. Set "confidence" from image clarity and extraction certainty, between 0.0 and 1.0.
4. If a field is unclear or missing, set it to null.
5. All numeric fields must be JSON numbers, never strings.

TAX RATE PRECISION:
- Read the tax rate percentage EXACTLY as printed, including ALL decimal places (6.875% is 6.875, not 6.75 or 6.88).
- Examine every digit of a percentage. Never round or truncate.

FIELD MAPPING:
- "S & H" or "S&H" is the "shipping" field.
- "OTHER" is the "other" field.
- A value shown as "-" or left blank is 0.00.`

// FullPrompt is the system and invoice prompt joined for providers without a separate
// system instruction channel.
const FullPrompt = SystemPrompt + "\n\n" + InvoicePrompt
