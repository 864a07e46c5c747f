// Package valuation maps domain events to monetary amounts.
//
// A RuleSet is an immutable, validated list of rules kept in priority order: more specific
// predicates (species, then shiny, then rarity, then level bounds) are tried before generic
// fallbacks, and declaration order breaks ties. The Engine holds the active RuleSet behind an
// atomic pointer so a reload swaps the whole table at once.
//
// Amounts are deterministic. Rules may declare a bounded random bonus; the bonus is drawn
// from a random source seeded from the rule set seed and the event identity, so valuating the
// same event twice under the same seed yields the same amount.
package valuation
